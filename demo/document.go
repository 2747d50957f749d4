package demo

import (
	"pds/container"
	"pds/ref"
	"pds/validate"
	"pds/wire"
)

// Document is a worked example entity: a titled collection of Items,
// linked by a dependency graph, indexed by a display order and aliased by
// human-readable names, exercising every composite container kind.
type Document struct {
	Title        string
	Items        *container.ItemTable[ref.ItemRef, Item]
	Dependencies *container.DirectedGraph[ref.ItemRef]
	Order        *container.IndexedVector[ref.ItemRef]
	Aliases      *container.BidirectionalMap[string, ref.ItemRef]
}

// TypeName identifies Document to the entity manager (spec §4.8).
func (*Document) TypeName() string { return "demo.document" }

// NewDocument creates an empty Document ready to have Items added.
func NewDocument(title string) *Document {
	return &Document{
		Title: title,
		Items: container.NewItemTable[ref.ItemRef, Item](container.ItemTableFlags{
			AllowNullValue: false,
		}),
		Dependencies: container.NewDirectedGraph[ref.ItemRef](container.GraphFlags{
			Acyclic: true,
			Rooted:  true,
		}),
		Order:   &container.IndexedVector[ref.ItemRef]{},
		Aliases: container.NewBidirectionalMap[string, ref.ItemRef](),
	}
}

var itemEntityCodec = container.EntityCodec[Item]{
	WriteInto: WriteItem,
	ReadFrom:  ReadItem,
	Validate:  ValidateItem,
}

const (
	documentTitleKey        = "Title"
	documentItemsKey        = "Items"
	documentDependenciesKey = "Dependencies"
	documentOrderKey        = "Order"
	documentAliasesKey      = "Aliases"
)

// Write serializes the document's fields into the section w is currently
// scoped to (the manager has already opened EntityFile and written
// EntityType before calling this).
func (d *Document) Write(w *wire.Writer) error {
	if err := w.WriteString(documentTitleKey, d.Title); err != nil {
		return err
	}
	if err := d.Items.Write(w, documentItemsKey, container.ItemRefCodec, itemEntityCodec); err != nil {
		return err
	}
	if err := d.Dependencies.Write(w, documentDependenciesKey, container.ItemRefCodec); err != nil {
		return err
	}
	if err := d.Order.Write(w, documentOrderKey, container.ItemRefCodec); err != nil {
		return err
	}
	if err := d.Aliases.Write(w, documentAliasesKey, container.StringCodec, container.ItemRefCodec); err != nil {
		return err
	}
	return nil
}

// Read populates the document's fields from r's current section.
func (d *Document) Read(r *wire.Reader) error {
	title, err := r.ReadString(documentTitleKey)
	if err != nil {
		return err
	}
	d.Title = title

	d.Items = container.NewItemTable[ref.ItemRef, Item](container.ItemTableFlags{})
	if err := d.Items.Read(r, documentItemsKey, container.ItemRefCodec, itemEntityCodec); err != nil {
		return err
	}

	d.Dependencies = container.NewDirectedGraph[ref.ItemRef](container.GraphFlags{Acyclic: true, Rooted: true})
	if err := d.Dependencies.Read(r, documentDependenciesKey, container.ItemRefCodec); err != nil {
		return err
	}

	d.Order = &container.IndexedVector[ref.ItemRef]{}
	if err := d.Order.Read(r, documentOrderKey, container.ItemRefCodec); err != nil {
		return err
	}

	d.Aliases = container.NewBidirectionalMap[string, ref.ItemRef]()
	return d.Aliases.Read(r, documentAliasesKey, container.StringCodec, container.ItemRefCodec)
}

// Validate checks the document-level invariant (non-empty title) and
// delegates to every container's own Validate.
func (d *Document) Validate(v *validate.Validator) {
	if d.Title == "" {
		v.ReportError(validate.NullNotAllowed, "document title must not be empty")
	}
	d.Items.Validate(v, func(k ref.ItemRef) bool { return k.IsNull() }, itemEntityCodec)
	if err := d.Dependencies.Validate(v); err != nil {
		v.ReportError(validate.InvalidSetup, "dependency graph validation failed: %v", err)
	}
	d.Order.Validate(v)
	d.Aliases.Validate(v)
}
