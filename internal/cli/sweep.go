package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/scene"
)

// sweepOpts holds sweep command options.
type sweepOpts struct {
	scene.SweepOptions
	axis    string
	format  string
	noCache bool
}

// sweepCommand creates the sweep command.
func (c *CLI) sweepCommand() *cobra.Command {
	var opts sweepOpts

	cmd := &cobra.Command{
		Use:   "sweep <scene>",
		Short: "Scroll a scene along one axis and report placement changes",
		Long: `Sweep resolves the scene at every scroll step between --from and --to and
groups consecutive offsets that resolve to the same placement. The first offset
of each later run is a transition point.`,
		Example: `  anchor sweep scenes/tooltip.toml
  anchor sweep scenes/menu.yaml --axis x --step 5`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScenes,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scene.Import(args[0])
			if err != nil {
				return err
			}
			opts.Axis = geom.Axis(strings.ToLower(opts.axis))
			return c.runSweep(cmd.Context(), sc, opts)
		},
	}

	cmd.Flags().StringVar(&opts.axis, "axis", string(geom.AxisY), "scroll axis: x or y")
	cmd.Flags().Float64Var(&opts.Step, "step", scene.DefaultSweepStep, "scroll increment in pixels")
	cmd.Flags().Float64Var(&opts.From, "from", 0, "first scroll offset")
	cmd.Flags().Float64Var(&opts.To, "to", 0, "last scroll offset (0 means the maximum)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: text or json")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	_ = cmd.RegisterFlagCompletionFunc("axis", cobra.FixedCompletions([]string{string(geom.AxisX), string(geom.AxisY)}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{formatText, formatJSON}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runSweep(ctx context.Context, sc *scene.Scene, opts sweepOpts) error {
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

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Sweeping %s...", sceneLabel(sc)))
	spin.Start()
	prog := newProgress(logger)
	res, cached, err := resolver.Sweep(ctx, sc, opts.SweepOptions)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Swept %s over %s", sceneLabel(sc), plural(res.Samples, "offset")))

	if format == formatJSON {
		return writeJSON(c.out, res)
	}
	printSweep(c.out, sc, res, cached)
	return nil
}

func printSweep(w io.Writer, sc *scene.Scene, res *scene.SweepResult, cached bool) {
	printSuccess(w, "%s %s %s along %s", sceneLabel(sc), iconArrow, plural(len(res.Runs), "run"), res.Axis)
	printStats(w, []string{plural(res.Samples, "sample")}, cached)
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(res.Runs))
	for _, run := range res.Runs {
		rows = append(rows, []string{string(run.Placement), num(run.From), num(run.To), fmt.Sprint(run.Samples)})
	}
	fmt.Fprintln(w, renderTable([]string{"Placement", "From", "To", "Samples"}, rows, -1))

	transitions := res.Transitions()
	if len(transitions) == 0 {
		printInfo(w, "No transitions: the placement is stable over the whole range")
		return
	}
	parts := make([]string, len(transitions))
	for i, t := range transitions {
		parts[i] = num(t)
	}
	printInfo(w, "Transitions at %s %s", res.Axis, strings.Join(parts, ", "))
}
