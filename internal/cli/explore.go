package cli

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/anchor/pkg/position"
	"github.com/matzehuels/anchor/pkg/scene"
	"github.com/matzehuels/anchor/pkg/session"
)

// exploreOpts holds explore command options.
type exploreOpts struct {
	step    float64
	resume  bool
	noCache bool
}

// exploreCommand creates the interactive explorer command.
func (c *CLI) exploreCommand() *cobra.Command {
	var opts exploreOpts

	cmd := &cobra.Command{
		Use:   "explore <scene>",
		Short: "Scroll a scene interactively and watch the placement change",
		Long: `Explore opens an interactive view of the scene's scroll container. Arrow keys
scroll the container and the floating element is re-resolved on every change.

On exit the scroll position is saved; --resume restores it the next time the
same scene is explored.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScenes,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.step, "step", 10, "scroll increment in pixels")
	cmd.Flags().BoolVar(&opts.resume, "resume", false, "restore the last saved scroll position")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, path string, opts exploreOpts) error {
	logger := loggerFromContext(ctx)

	sc, err := scene.Import(path)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	store, err := openSessionStore()
	if err != nil {
		logger.Warn("snapshots disabled", "err", err)
	}

	model := NewExploreModel(ctx, sc, nil)
	if opts.step > 0 {
		model.Step = opts.step
	}
	if opts.resume && store != nil {
		if snap := loadSnapshot(ctx, store, sc, abs); snap != nil {
			model.Scroll, model.shown = snap.Scroll, snap.Scroll
			if snap.Step > 0 {
				model.Step = snap.Step
			}
			logger.Debug("resumed", "scene", sc.Name, "scroll", fmt.Sprintf("%v", snap.Scroll))
		}
	}

	resolver, err := c.newResolver(opts.noCache)
	if err != nil {
		return err
	}
	defer resolver.Cache.Close()
	model.resolve = func(ctx context.Context, sc *scene.Scene) (*position.Result, error) {
		res, _, err := resolver.Resolve(ctx, sc)
		return res, err
	}

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	m, ok := final.(ExploreModel)
	if !ok || store == nil {
		return nil
	}
	snap := &session.Snapshot{ID: snapshotID(sc), ScenePath: abs, Scroll: m.Scroll, Step: m.Step}
	if err := store.Set(ctx, snap); err != nil {
		logger.Warn("could not save scroll position", "err", err)
		return nil
	}
	printInfo(c.out, "Saved scroll position (%s, %s) for %s", num(m.Scroll.X), num(m.Scroll.Y), sceneLabel(sc))
	return nil
}

func openSessionStore() (*session.FileStore, error) {
	dir, err := sessionDir()
	if err != nil {
		return nil, err
	}
	store, err := session.NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	_ = store.Cleanup(context.Background())
	return store, nil
}

// loadSnapshot returns the saved state for sc if it belongs to the same file
// and its scroll offset is still in range.
func loadSnapshot(ctx context.Context, store *session.FileStore, sc *scene.Scene, path string) *session.Snapshot {
	snap, err := store.Get(ctx, snapshotID(sc))
	if err != nil || snap == nil || snap.ScenePath != path {
		return nil
	}
	if sc.WithScroll(snap.Scroll).Validate() != nil {
		return nil
	}
	return snap
}

// snapshotID derives a file-safe snapshot name from the scene name.
func snapshotID(sc *scene.Scene) string {
	id := []rune(sceneLabel(sc))
	for i, r := range id {
		if r == '/' || r == '\\' || r == ' ' || r < 0x20 {
			id[i] = '_'
		}
	}
	if len(id) > 64 {
		id = id[:64]
	}
	return string(id)
}
