package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/jig/pkg/attach"
	"github.com/chazu/jig/pkg/document"
	"github.com/chazu/jig/pkg/engine"
)

func newEvalCmd(a *app) *cobra.Command {
	var f evalFlags
	cmd := &cobra.Command{
		Use:   "eval FILE",
		Short: "Evaluate a script, recompute its attachments and print placements",
		Long: `Evaluate a jig script (use - for stdin), validate the document it
builds, solve every attachment in dependency order and print the resulting
placements. Attachment failures are reported per object and make the
command exit non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEval(cmd, args[0], f)
		},
	}
	cmd.Flags().StringVarP(&f.snapshot, "snapshot", "o", "", "write a CBOR snapshot of the document to this file")
	cmd.Flags().StringVar(&f.restore, "restore", "", "apply attachment settings and placements from a CBOR snapshot before solving")
	return cmd
}

type evalFlags struct {
	snapshot string
	restore  string
}

// errAttachmentsFailed reports that at least one attachment did not solve.
var errAttachmentsFailed = errors.New("some attachments failed")

func (a *app) runEval(cmd *cobra.Command, path string, f evalFlags) error {
	src, err := readSource(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	k := a.kernel()
	eng := engine.NewEngine(engine.WithKernel(k), engine.WithTimeout(a.cfg.Eval.Timeout))
	res, err := eng.Check(src)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !res.OK() {
		for _, e := range res.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, errorStyle.Render(e.Error()))
		}
		return fmt.Errorf("%s: %d error(s)", path, len(res.Errors))
	}

	doc := res.Document
	if f.restore != "" {
		data, err := os.ReadFile(f.restore)
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		if err := doc.UnmarshalSnapshot(data); err != nil {
			return fmt.Errorf("%s: %w", f.restore, err)
		}
	}
	rep, err := doc.Recompute(cmd.Context(), k,
		document.WithParallelism(a.cfg.Recompute.Parallelism),
		document.WithEngineOptions(attach.WithTolerance(a.cfg.Solver.Tolerance)))
	if err != nil {
		return err
	}
	a.log.Debug("recomputed", "objects", doc.Len(), "levels", rep.Levels, "duration", rep.Duration)

	warnings := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		warnings = append(warnings, fmt.Sprintf("object %s: %s", w.ObjectID, w.Message))
	}
	if err := render(cmd.OutOrStdout(), a.cfg.Output.Format, newEvalOut(doc, rep, warnings)); err != nil {
		return err
	}

	if f.snapshot != "" {
		data, err := doc.MarshalSnapshot()
		if err != nil {
			return err
		}
		if err := os.WriteFile(f.snapshot, data, 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	}

	if failed := rep.Failed(); len(failed) > 0 {
		return fmt.Errorf("%w: %d of %d", errAttachmentsFailed, len(failed), len(rep.Results))
	}
	return nil
}

func readSource(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(data), nil
}
