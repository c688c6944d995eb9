package schema

// DocumentSet is one protocol's loaded or assembled document graph. It is the
// arena for a single conversion run: every document lives here exactly once,
// and cross-document references resolve through explicit indexed lookups that
// can fail, never through implicit pointers.
type DocumentSet struct {
	Protocol   *Protocol
	Activities []*ActivityDoc

	byRef map[string]*ActivityDoc
}

// ActivityDoc pairs an Activity document with the reference the Protocol uses
// for it and with the Items it owns. Items are owned by exactly one Activity
// within a set.
type ActivityDoc struct {
	Ref      string
	Activity *Activity
	Items    []*ItemDoc

	byRef map[string]*ItemDoc
}

// ItemDoc pairs an Item document with the reference its Activity uses for it.
type ItemDoc struct {
	Ref  string
	Item *Item
}

// NewDocumentSet returns an empty set for the given protocol document.
func NewDocumentSet(p *Protocol) *DocumentSet {
	return &DocumentSet{Protocol: p, byRef: make(map[string]*ActivityDoc)}
}

// AddActivity registers an activity under the reference the protocol uses.
func (s *DocumentSet) AddActivity(ref string, a *Activity) *ActivityDoc {
	doc := &ActivityDoc{Ref: ref, Activity: a, byRef: make(map[string]*ItemDoc)}
	s.Activities = append(s.Activities, doc)
	s.byRef[ref] = doc
	return doc
}

// ActivityByRef resolves a protocol-level reference.
func (s *DocumentSet) ActivityByRef(ref string) (*ActivityDoc, bool) {
	a, ok := s.byRef[ref]
	return a, ok
}

// AddItem registers an item under the reference its activity uses.
func (a *ActivityDoc) AddItem(ref string, it *Item) *ItemDoc {
	doc := &ItemDoc{Ref: ref, Item: it}
	a.Items = append(a.Items, doc)
	a.byRef[ref] = doc
	return doc
}

// ItemByRef resolves an activity-level reference.
func (a *ActivityDoc) ItemByRef(ref string) (*ItemDoc, bool) {
	it, ok := a.byRef[ref]
	return it, ok
}

// ItemIDs returns the identifiers of every item the activity owns, in order.
func (a *ActivityDoc) ItemIDs() []string {
	ids := make([]string, 0, len(a.Items))
	for _, it := range a.Items {
		ids = append(ids, it.Item.ID)
	}
	return ids
}
