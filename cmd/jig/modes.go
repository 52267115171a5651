package main

import (
	"github.com/spf13/cobra"

	"github.com/chazu/jig/pkg/attach"
)

func newModesCmd(a *app) *cobra.Command {
	var dimName string
	cmd := &cobra.Command{
		Use:   "modes [KIND...]",
		Short: "List attachment modes",
		Long: `List the attachment modes of the registry. With reference kinds
(vertex, edge, face, object) only the modes that accept exactly that
sequence of references are shown, in suggestion order.`,
		Example: `  jig modes --dim line
  jig modes --dim plane vertex vertex vertex
  jig modes edge`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dims := []attach.Dimension{attach.DimPoint, attach.DimLine, attach.DimPlane, attach.DimFrame}
			if dimName != "" {
				dim, err := attach.ParseDimension(dimName)
				if err != nil {
					return err
				}
				dims = []attach.Dimension{dim}
			}
			kinds := make([]attach.RefKind, len(args))
			for i, arg := range args {
				k, err := attach.ParseRefKind(arg)
				if err != nil {
					return err
				}
				kinds[i] = k
			}
			return render(cmd.OutOrStdout(), a.cfg.Output.Format, listModes(attach.DefaultRegistry(), dims, kinds, len(args) > 0))
		},
	}
	cmd.Flags().StringVarP(&dimName, "dim", "d", "", "attachment dimension: point, line, plane or frame")
	return cmd
}

// listModes returns the modes of dims, filtered to those accepting kinds
// when filter is set.
func listModes(reg *attach.Registry, dims []attach.Dimension, kinds []attach.RefKind, filter bool) modesOut {
	out := modesOut{}
	for _, dim := range dims {
		if !filter {
			for _, m := range reg.Modes(dim) {
				out = append(out, newModeOut(m))
			}
			continue
		}
		for _, id := range reg.ApplicableModes(dim, kinds) {
			m, err := reg.Lookup(dim, id)
			if err != nil {
				continue
			}
			out = append(out, newModeOut(m))
		}
	}
	return out
}
