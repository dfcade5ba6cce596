package form

import (
	"context"
	"slices"
	"sync"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/fields"
)

// OptionFetcher loads one dependent option list.
type OptionFetcher func(ctx context.Context) ([]domain.Option, error)

// Ticket identifies one outstanding option request.
type Ticket struct {
	Field string
	Seq   uint64
}

// DependentOptions holds option lists that depend on other field values,
// such as sectors for a (cluster, type) pair. Each request is tagged with a
// sequence number; a response is applied only if no newer request for the
// same field was started, so a slow stale response cannot overwrite a
// fresher list.
type DependentOptions struct {
	mu      sync.Mutex
	seq     uint64
	latest  map[string]uint64
	options map[string][]domain.Option
}

func NewDependentOptions() *DependentOptions {
	return &DependentOptions{
		latest:  map[string]uint64{},
		options: map[string][]domain.Option{},
	}
}

// Begin starts a request for field and makes it the latest.
func (d *DependentOptions) Begin(field string) Ticket {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	d.latest[field] = d.seq
	return Ticket{Field: field, Seq: d.seq}
}

// Apply stores opts if t is still the latest request for its field.
func (d *DependentOptions) Apply(t Ticket, opts []domain.Option) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.latest[t.Field] != t.Seq {
		return false
	}
	d.options[t.Field] = slices.Clone(opts)
	return true
}

// Fetch runs fetch under a new ticket. applied is false when a newer
// request superseded this one; errors are returned either way.
func (d *DependentOptions) Fetch(ctx context.Context, field string, fetch OptionFetcher) (opts []domain.Option, applied bool, err error) {
	t := d.Begin(field)
	opts, err = fetch(ctx)
	if err != nil {
		return nil, false, err
	}
	return opts, d.Apply(t, opts), nil
}

// Options returns the current list for field.
func (d *DependentOptions) Options(field string) []domain.Option {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.options[field])
}

// Set stores a list directly, bypassing sequencing. Used for lists that do
// not depend on other fields.
func (d *DependentOptions) Set(field string, opts []domain.Option) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.options[field] = slices.Clone(opts)
}

// Decorate returns fs with every loaded option list attached.
func (d *DependentOptions) Decorate(fs []domain.FieldDescriptor) []domain.FieldDescriptor {
	d.mu.Lock()
	names := make([]string, 0, len(d.options))
	for name := range d.options {
		names = append(names, name)
	}
	d.mu.Unlock()

	out := fs
	for _, name := range names {
		out = fields.WithOptions(out, name, d.Options(name))
	}
	return out
}

// DecorateSections applies Decorate to the fields of every section.
func (d *DependentOptions) DecorateSections(sections []Section) []Section {
	out := slices.Clone(sections)
	for i := range out {
		out[i].Fields = d.Decorate(out[i].Fields)
	}
	return out
}
