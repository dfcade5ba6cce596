package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/form"
	"github.com/alexanderramin/mlfs/internal/importer"
)

// assignmentsValue collects repeated --set flags, parsing each on the way in
// so that a malformed assignment fails before any request is made.
type assignmentsValue struct {
	list *[]form.Assignment
}

var _ pflag.Value = assignmentsValue{}

func (v assignmentsValue) String() string {
	if v.list == nil {
		return ""
	}
	parts := make([]string, len(*v.list))
	for i, a := range *v.list {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}

func (v assignmentsValue) Set(s string) error {
	a, err := form.ParseAssignment(s)
	if err != nil {
		return err
	}
	*v.list = append(*v.list, a)
	return nil
}

func (v assignmentsValue) Type() string { return "section.field=value" }

func addSetFlag(fs *pflag.FlagSet, list *[]form.Assignment) {
	fs.VarP(assignmentsValue{list: list}, "set", "s", "Set a field, e.g. cross_cutting.title=\"Foam conversion\" or ods_odp[1].phase_out_mt=2.5 (repeatable)")
}

func addFromFlag(fs *pflag.FlagSet, path *string) {
	fs.StringVar(path, "from", "", "Read field values from a yaml or json record file; --set values apply after it")
}

// withRecordFile prepends the assignments of the record file at path, if
// any, to the --set list.
func withRecordFile(path string, kind domain.RecordKind, sets []form.Assignment) ([]form.Assignment, error) {
	if path == "" {
		return sets, nil
	}
	f, err := importer.LoadRecordFile(path)
	if err != nil {
		return nil, err
	}
	if errs := importer.ValidateRecordFile(f, kind); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", path, errors.Join(errs...))
	}
	return append(importer.Assignments(f, kind), sets...), nil
}

// splitAssignments separates edits of the given sections from the rest.
func splitAssignments(list []form.Assignment, sections ...string) (in, out []form.Assignment) {
	for _, a := range list {
		matched := false
		for _, s := range sections {
			if a.Section == s {
				matched = true
				break
			}
		}
		if matched {
			in = append(in, a)
		} else {
			out = append(out, a)
		}
	}
	return in, out
}
