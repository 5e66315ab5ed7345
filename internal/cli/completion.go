package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for anchor.

The scripts complete more than command names: scene arguments offer only
.toml, .yaml, .yml and .json files, --placement offers the twelve placements
(bottom, bottom-start, ... left-end), and --axis, --format and --alignment
offer their fixed values.

Load completions for the current shell session:

  $ source <(anchor completion bash)
  $ source <(anchor completion zsh)
  $ anchor completion fish | source
  PS> anchor completion powershell | Out-String | Invoke-Expression

To keep them, write the script where your shell looks for completions, e.g.
"${fpath[1]}/_anchor" for zsh or ~/.config/fish/completions/anchor.fish.
`,
		Example: `  anchor completion zsh > "${fpath[1]}/_anchor"
  anchor resolve <TAB>                 # lists scene files
  anchor resolve tip.toml -p <TAB>     # lists placements`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.out)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.out)
			}
			return nil
		},
	}

	return cmd
}

// sceneFormats are the extensions scene.FormatOf accepts.
var sceneFormats = []string{"toml", "yaml", "yml", "json"}

// completeScenes limits the scene argument to files scene.Import can read.
func completeScenes(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return sceneFormats, cobra.ShellCompDirectiveFilterFileExt
}
