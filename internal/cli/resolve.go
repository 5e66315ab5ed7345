package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/position"
	"github.com/matzehuels/anchor/pkg/position/middleware"
	"github.com/matzehuels/anchor/pkg/scene"
)

// resolveOpts holds resolve command options.
type resolveOpts struct {
	format    string
	noCache   bool
	placement string
	scrollX   float64
	scrollY   float64
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve <scene>",
		Short: "Resolve the floating element's position for a scene file",
		Long: `Resolve runs the scene's middleware pipeline and prints where the floating
element renders. With autoPlacement in the pipeline, every candidate's
overflow score is listed.`,
		Example: `  anchor resolve scenes/tooltip.toml
  anchor resolve scenes/tooltip.toml --scroll-y 420 --format json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScenes,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scene.Import(args[0])
			if err != nil {
				return err
			}
			if err := applyOverrides(cmd, sc, opts); err != nil {
				return err
			}
			return c.runResolve(cmd.Context(), sc, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: text or json")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().StringVarP(&opts.placement, "placement", "p", "", "override the scene's placement")
	cmd.Flags().Float64Var(&opts.scrollX, "scroll-x", 0, "override the container's horizontal scroll offset")
	cmd.Flags().Float64Var(&opts.scrollY, "scroll-y", 0, "override the container's vertical scroll offset")

	_ = cmd.RegisterFlagCompletionFunc("placement", completePlacements)
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{formatText, formatJSON}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func completePlacements(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, len(geom.Placements))
	for i, p := range geom.Placements {
		names[i] = string(p)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// applyOverrides applies flags that were set explicitly.
func applyOverrides(cmd *cobra.Command, sc *scene.Scene, opts resolveOpts) error {
	if opts.placement != "" {
		p, err := geom.ParsePlacement(opts.placement)
		if err != nil {
			return err
		}
		sc.Placement = p
	}
	if cmd.Flags().Changed("scroll-x") {
		sc.Scroll.X = opts.scrollX
	}
	if cmd.Flags().Changed("scroll-y") {
		sc.Scroll.Y = opts.scrollY
	}
	return nil
}

func (c *CLI) runResolve(ctx context.Context, sc *scene.Scene, opts resolveOpts) error {
	format, err := checkFormat(opts.format)
	if err != nil {
		return err
	}
	logger := loggerFromContext(ctx)

	resolver, err := c.newResolver(opts.noCache)
	if err != nil {
		return err
	}
	defer resolver.Cache.Close()

	prog := newProgress(logger)
	res, cached, err := resolver.Resolve(ctx, sc)
	if err != nil {
		return err
	}
	logger.Debug("resolved", "scene", sc.Name, "placement", res.Placement, "resets", res.Resets, "cached", cached)
	prog.done(fmt.Sprintf("Resolved %s", sceneLabel(sc)))

	if format == formatJSON {
		return writeJSON(c.out, res)
	}
	printResult(c.out, sc, res, cached)
	return nil
}

func printResult(w io.Writer, sc *scene.Scene, res *position.Result, cached bool) {
	printSuccess(w, "%s %s %s at (%s, %s)",
		sceneLabel(sc), iconArrow, StyleHighlight.Render(string(res.Placement)), num(res.X), num(res.Y))
	printStats(w, []string{plural(res.Resets, "reset"), string(res.Strategy)}, cached)

	if data, ok := dataAs[middleware.AutoPlacementData](res.MiddlewareData, middleware.AutoPlacementName); ok && len(data.Candidates) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, candidateTable(data))
	}

	for _, name := range slices.Sorted(maps.Keys(res.MiddlewareData)) {
		if name == middleware.AutoPlacementName {
			continue
		}
		raw, err := json.Marshal(res.MiddlewareData[name])
		if err != nil {
			continue
		}
		printKeyValue(w, name, string(raw))
	}
}

// candidateTable lists autoPlacement's candidates with the winner marked.
func candidateTable(data middleware.AutoPlacementData) string {
	rows := make([][]string, 0, len(data.Candidates))
	winner := -1
	for i, cand := range data.Candidates {
		if cand.Placement == data.Placement && winner < 0 {
			winner = i
		}
		o := cand.Overflow
		rows = append(rows, []string{
			string(cand.Placement),
			num(cand.Main),
			num(cand.Cross),
			num(cand.Room),
			fmt.Sprintf("%s %s %s %s", num(o.Top), num(o.Right), num(o.Bottom), num(o.Left)),
		})
	}
	return renderTable([]string{"Placement", "Main", "Cross", "Room", "Overflow (t r b l)"}, rows, winner)
}

// dataAs returns a stage's payload as T. Results read back from the cache
// hold generic JSON values, which are re-decoded.
func dataAs[T any](d position.Data, name string) (T, bool) {
	if v, ok := position.DataOf[T](d, name); ok {
		return v, true
	}
	var out T
	raw, ok := d[name]
	if !ok {
		return out, false
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return out, false
	}
	return out, json.Unmarshal(b, &out) == nil
}

func sceneLabel(sc *scene.Scene) string {
	if sc.Name == "" {
		return "scene"
	}
	return sc.Name
}

// checkFormat normalizes an output format name.
func checkFormat(format string) (string, error) {
	switch f := strings.ToLower(format); f {
	case formatText, formatJSON:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown output format %q (must be text or json)", format)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
