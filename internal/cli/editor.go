package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alexanderramin/mlfs/internal/api"
	"github.com/alexanderramin/mlfs/internal/cli/formatter"
	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/fields"
	"github.com/alexanderramin/mlfs/internal/form"
	"github.com/alexanderramin/mlfs/internal/record"
	"github.com/alexanderramin/mlfs/internal/service"
)

type kindSpec struct {
	kind  domain.RecordKind
	use   string
	short string
}

var (
	projectKind    = kindSpec{kind: domain.KindProject, use: "project", short: "Create, edit and move projects through submission"}
	enterpriseKind = kindSpec{kind: domain.KindEnterprise, use: "enterprise", short: "Create, edit and approve enterprises"}
	linkKind       = kindSpec{kind: domain.KindProjectEnterprise, use: "link", short: "Edit and approve project-enterprise links"}
)

func commandFor(kind domain.RecordKind) string {
	for _, s := range []kindSpec{projectKind, enterpriseKind, linkKind} {
		if s.kind == kind {
			return s.use
		}
	}
	return ""
}

func (s kindSpec) noun() string {
	return strings.ToLower(formatter.KindLabel(s.kind))
}

// target names the record a command works on: a server id, a local
// draft, or neither for a new record.
type target struct {
	id      *int
	draftID string
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", arg)
	}
	return id, nil
}

func targetFrom(args []string, draftID string, required bool) (target, error) {
	if draftID != "" && len(args) > 0 {
		return target{}, errors.New("give either a record id or --draft, not both")
	}
	if len(args) > 0 {
		id, err := parseID(args[0])
		if err != nil {
			return target{}, err
		}
		return target{id: &id}, nil
	}
	if draftID == "" && required {
		return target{}, errors.New("a record id or --draft is required")
	}
	return target{draftID: draftID}, nil
}

// editor is one record opened for viewing or editing: the session, the
// dynamic fields it was laid out with, and the user's permissions.
type editor struct {
	app   *App
	kind  domain.RecordKind
	perms domain.Permissions

	sess        *form.Session
	dyn         []domain.FieldDescriptor
	fieldKey    string
	layout      []record.SectionLayout
	options     *form.DependentOptions
	attachments service.Attachments
	draftID     string
	substances  bool
	continues   *int
}

func (a *App) openEditor(ctx context.Context, kind domain.RecordKind, t target) (*editor, error) {
	perms, err := a.Profile.Permissions(ctx, false)
	if err != nil {
		return nil, err
	}
	if !perms.CanView(kind) {
		return nil, fmt.Errorf("%s records: %w", strings.ToLower(formatter.KindLabel(kind)), errNoAccess)
	}
	e := &editor{app: a, kind: kind, perms: perms, options: form.NewDependentOptions()}
	e.layout = form.Layout(kind, nil)

	switch {
	case t.draftID != "":
		d, err := a.Drafts.Get(ctx, t.draftID)
		if err != nil {
			return nil, fmt.Errorf("draft %s: %w", t.draftID, err)
		}
		if d.Kind != kind {
			return nil, fmt.Errorf("draft %s holds a %s", t.draftID, strings.ToLower(formatter.KindLabel(d.Kind)))
		}
		e.draftID = d.ID
		e.sess = service.Resume(d)
		if d.RecordID != nil && kind == domain.KindProject {
			entity, err := a.Records.Get(ctx, kind, *d.RecordID)
			if err != nil {
				return nil, err
			}
			e.attachments = service.AttachmentsFromEntity(entity)
		}
		if err := e.refreshFields(ctx); err != nil {
			return nil, err
		}
	case t.id != nil:
		entity, err := a.Records.Get(ctx, kind, *t.id)
		if err != nil {
			return nil, err
		}
		e.attachments = service.AttachmentsFromEntity(entity)
		// The static sections carry the identifiers the dynamic fields
		// are looked up by.
		e.sess = form.NewSession(record.Build(kind, e.layout, entity))
		if err := e.loadFields(ctx); err != nil {
			return nil, err
		}
		e.sess = form.NewSession(record.Build(kind, e.layout, entity))
	default:
		e.sess = form.NewSession(record.Build(kind, e.layout, nil))
	}
	return e, nil
}

var errNoAccess = errors.New("not permitted for this account")

func intValue(v any) (int, bool) {
	n, ok := domain.NormalizeID(v).(int)
	return n, ok && n > 0
}

// query returns the field descriptor query for a project once its
// cluster, type and sector are all chosen.
func (e *editor) query() (api.FieldQuery, bool) {
	if e.kind != domain.KindProject {
		return api.FieldQuery{}, false
	}
	cluster, ok1 := intValue(e.sess.Get(form.KeyIdentifiers, "cluster"))
	projectType, ok2 := intValue(e.sess.Get(form.KeyCrossCutting, "project_type"))
	sector, ok3 := intValue(e.sess.Get(form.KeyCrossCutting, "sector"))
	if !ok1 || !ok2 || !ok3 {
		return api.FieldQuery{}, false
	}
	return api.FieldQuery{Cluster: cluster, ProjectType: projectType, Sector: sector, ProjectID: e.sess.Record().ID}, true
}

func (e *editor) loadFields(ctx context.Context) error {
	e.dyn, e.fieldKey = nil, ""
	if q, ok := e.query(); ok {
		fs, err := e.app.Catalog.Fields(ctx, q)
		if err != nil {
			return err
		}
		e.dyn, e.fieldKey = fs, q.Key()
	}
	e.layout = form.Layout(e.kind, e.dyn)
	return nil
}

// refreshFields reloads the dynamic fields after the identifiers changed
// and moves the session onto the new layout.
func (e *editor) refreshFields(ctx context.Context) error {
	before := e.fieldKey
	if err := e.loadFields(ctx); err != nil {
		return err
	}
	if e.fieldKey != before || e.draftID != "" {
		e.sess.Relayout(e.layout)
	}
	return nil
}

// loadSectors fetches the sector choices for the chosen cluster and type.
func (e *editor) loadSectors(ctx context.Context) error {
	if e.kind != domain.KindProject {
		return nil
	}
	cluster, ok1 := intValue(e.sess.Get(form.KeyIdentifiers, "cluster"))
	projectType, ok2 := intValue(e.sess.Get(form.KeyCrossCutting, "project_type"))
	if !ok1 || !ok2 {
		return nil
	}
	_, _, err := e.app.Catalog.Sectors(ctx, e.options, cluster, projectType)
	return err
}

// loadSubstances fetches the substance choices once, when a visible
// section offers them.
func (e *editor) loadSubstances(ctx context.Context) error {
	if e.substances || !hasField(e.sections(), fields.FieldSubstanceChoice) {
		return nil
	}
	if _, err := e.app.Catalog.Substances(ctx, e.options); err != nil {
		return err
	}
	e.substances = true
	return nil
}

func hasField(sections []form.Section, name string) bool {
	for _, s := range sections {
		for _, f := range s.Fields {
			if f.Name() == name {
				return true
			}
		}
	}
	return false
}

func (e *editor) sections() []form.Section {
	secs := form.VisibleSections(e.kind, e.dyn, e.perms, e.sess.Record().Status)
	return e.options.DecorateSections(secs)
}

func isHeadSection(s form.Section) bool {
	return s.Key == form.KeyIdentifiers || s.Key == form.KeyCrossCutting
}

// apply performs scripted edits. Project identifiers go first so that the
// remaining edits see the sections of the chosen project type.
func (e *editor) apply(ctx context.Context, list []form.Assignment) error {
	if len(list) == 0 {
		return nil
	}
	if e.kind != domain.KindProject {
		if err := e.loadSubstances(ctx); err != nil {
			return err
		}
		return form.Apply(e.sess, e.sections(), e.perms, list)
	}
	head, rest := splitAssignments(list, form.KeyIdentifiers, form.KeyCrossCutting)
	if err := e.loadSectors(ctx); err != nil {
		return err
	}
	if err := form.Apply(e.sess, e.sections(), e.perms, head); err != nil {
		return err
	}
	if len(head) > 0 {
		if err := e.refreshFields(ctx); err != nil {
			return err
		}
	}
	if err := e.loadSubstances(ctx); err != nil {
		return err
	}
	return form.Apply(e.sess, e.sections(), e.perms, rest)
}

// interact runs the edit forms. Projects are edited in two steps: the
// identifiers first, then the sections their choice unlocks.
func (e *editor) interact(ctx context.Context) error {
	if e.kind != domain.KindProject {
		if err := e.loadSubstances(ctx); err != nil {
			return err
		}
		return e.runForm(ctx, nil)
	}
	if err := e.loadSectors(ctx); err != nil {
		return err
	}
	if err := e.runForm(ctx, isHeadSection); err != nil {
		return err
	}
	if err := e.refreshFields(ctx); err != nil {
		return err
	}
	if err := e.loadSubstances(ctx); err != nil {
		return err
	}
	return e.runForm(ctx, func(s form.Section) bool { return !isHeadSection(s) })
}

func (e *editor) runForm(ctx context.Context, keep func(form.Section) bool) error {
	var picked []form.Section
	for _, s := range e.sections() {
		if keep == nil || keep(s) {
			picked = append(picked, s)
		}
	}
	f, bindings, err := form.BuildForm(e.sess, picked, e.perms)
	if errors.Is(err, form.ErrNothingToEdit) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := f.WithTheme(mlfsHuhTheme(e.app.Theme)).RunWithContext(ctx); err != nil {
		return err
	}
	return bindings.Commit()
}

// abandon handles a cancelled form: unchanged sessions are dropped, and
// changed ones are discarded only if the user says so.
func (e *editor) abandon(ctx context.Context, w io.Writer) error {
	if !e.sess.IsDirty() {
		fmt.Fprintln(w, formatter.Dim("Nothing changed."))
		return nil
	}
	body := fmt.Sprintf("%d field(s) changed. Choose No to keep them as a local draft.", e.sess.Touched().Len())
	discard, err := e.app.confirmer().Confirm(ctx, "Discard your changes?", body)
	if err != nil {
		return err
	}
	if !discard {
		return e.keepDraft(ctx, w)
	}
	if e.draftID != "" {
		if err := e.app.Drafts.Discard(ctx, e.draftID); err != nil {
			return err
		}
	}
	fmt.Fprintln(w, formatter.Dim("Changes discarded."))
	return nil
}

func (e *editor) keepDraft(ctx context.Context, w io.Writer) error {
	id, err := e.app.Drafts.Save(ctx, e.draftID, e.fieldKey, e.sess)
	if err != nil {
		return err
	}
	e.draftID = id
	fmt.Fprintf(w, "%s Draft saved. Resume with: mlfs %s edit --draft %s\n",
		formatter.StyleYellow.Render("!"), commandFor(e.kind), id)
	return nil
}

// run performs an action. On failure the session's errors are printed and
// unsaved edits are kept as a local draft.
func (e *editor) run(ctx context.Context, w io.Writer, action domain.Action) error {
	out := e.app.submission(w).Run(ctx, service.SubmitRequest{
		Session:     e.sess,
		Action:      action,
		Layout:      e.layout,
		Fields:      e.dyn,
		Permissions: e.perms,
		Attachments: e.attachments,
		DraftID:     e.draftID,
		Continues:   e.continues,
	})
	if out.OK() {
		e.draftID = ""
		return nil
	}
	if errors.Is(out.Err, service.ErrCancelled) {
		fmt.Fprintln(w, formatter.Dim("Cancelled."))
		return nil
	}
	if msg := formatter.FormatSessionErrors(e.sess, e.sections()); msg != "" {
		fmt.Fprint(w, msg)
	}
	if e.sess.IsDirty() {
		if err := e.keepDraft(ctx, w); err != nil {
			return errors.Join(out.Err, err)
		}
	}
	return out.Err
}
