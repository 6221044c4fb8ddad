// Package probe implements command which reports dimensions of images.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"imgdim/localfs"
	"imgdim/remote"
	"imgdim/resolve"
	"imgdim/state"
)

func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("probe")

	refs := cmd.Args().Slice()
	if len(refs) == 0 {
		return errors.New("no image references have been specified")
	}

	// command line overwrites configured site
	site := &env.Cfg.Site
	if cmd.IsSet("root") {
		site.RootPath = cmd.String("root")
	}
	if cmd.IsSet("base-url") {
		site.BaseURL = cmd.String("base-url")
	}
	if cmd.IsSet("secure-base-url") {
		site.SecureBaseURL = cmd.String("secure-base-url")
	}
	if cmd.IsSet("script") {
		site.ScriptFilename = cmd.String("script")
	}

	client := remote.NewClient(&env.Cfg.Remote, log)
	env.Resolver = resolve.New(localfs.New(), remote.NewSizer(client, &env.Cfg.Remote), client, env, resolve.WithLogger(log))

	log.Debug("Processing starting", zap.Int("references", len(refs)), zap.String("root", site.RootPath))
	defer func(start time.Time) {
		log.Debug("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	if err := process(ctx, os.Stdout, env.Resolver, refs); err != nil {
		return err
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("dimensions.tsv", dump(env.Resolver.Cache()))
	}
	return nil
}

// process writes tab separated reference, width and height for every
// reference in order given.
func process(ctx context.Context, w io.Writer, r *resolve.Resolver, refs []string) error {
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return err
		}
		d := r.Dimensions(ctx, ref)
		if _, err := fmt.Fprintf(w, "%s\t%g\t%g\n", ref, d.Width, d.Height); err != nil {
			return fmt.Errorf("unable to write result: %w", err)
		}
	}
	return nil
}

// dump renders memoized dimensions in natural order of references.
func dump(c *resolve.Cache) []byte {
	entries := c.Snapshot()
	refs := make([]string, 0, len(entries))
	for ref := range entries {
		refs = append(refs, ref)
	}
	sort.Sort(natural.StringSlice(refs))

	buf := new(bytes.Buffer)
	for _, ref := range refs {
		d := entries[ref]
		fmt.Fprintf(buf, "%s\t%g\t%g\n", ref, d.Width, d.Height)
	}
	return buf.Bytes()
}
