package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/position/middleware"
	"github.com/matzehuels/anchor/pkg/scene"
)

// placementsCommand lists the placement set, or the candidates autoPlacement
// derives for an alignment.
func (c *CLI) placementsCommand() *cobra.Command {
	var (
		alignment     string
		autoAlignment bool
	)

	cmd := &cobra.Command{
		Use:   "placements",
		Short: "List placements and middleware stage types",
		Example: `  anchor placements
  anchor placements --alignment start --auto-alignment`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			align, err := geom.ParseAlignment(alignment)
			if err != nil {
				return err
			}
			title, candidates := "Placements", geom.Placements
			if cmd.Flags().Changed("alignment") {
				candidates, err = middleware.AutoPlacementOptions{
					Alignment:     align,
					AutoAlignment: autoAlignment,
				}.Candidates()
				if err != nil {
					return err
				}
				title = fmt.Sprintf("autoPlacement candidates (alignment %s)", align)
			}
			fmt.Fprintln(c.out, StyleTitle.Render(title))
			for _, p := range candidates {
				fmt.Fprintf(c.out, "  %s %s\n", StyleDim.Render(string(p.Side())), StyleValue.Render(string(p)))
			}
			fmt.Fprintln(c.out)
			printKeyValue(c.out, "stages", strings.Join(scene.StageTypes(), ", "))
			printKeyValue(c.out, "formats", joinFormats(scene.Formats))
			return nil
		},
	}

	cmd.Flags().StringVar(&alignment, "alignment", "", "list the candidates for this alignment: start or end")
	cmd.Flags().BoolVar(&autoAlignment, "auto-alignment", false, "also accept the opposite alignment")
	_ = cmd.RegisterFlagCompletionFunc("alignment", cobra.FixedCompletions([]string{"start", "end"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func joinFormats(formats []scene.Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
