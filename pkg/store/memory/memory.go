package memory

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/store"
	"github.com/vmihailenco/msgpack/v5"
)

// Driver is an in process document store. All collections share one mutex.
type Driver struct {
	mu          sync.Mutex
	collections map[string]*collection
}

func New() *Driver {
	return &Driver{
		collections: map[string]*collection{},
	}
}

func (d *Driver) Collection(name string) store.Collection {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.collection(name)
}

func (d *Driver) collection(name string) *collection {
	c, ok := d.collections[name]
	if !ok {
		c = &collection{driver: d, name: name}
		d.collections[name] = c
	}
	return c
}

func (d *Driver) Close(ctx context.Context) error {
	return nil
}

type snapshot struct {
	Collections map[string]snapshotCollection `msgpack:"collections"`
}

type snapshotCollection struct {
	Documents []map[string]any `msgpack:"documents"`
	Indexes   []store.Index    `msgpack:"indexes"`
}

// Snapshot writes every collection, documents and indexes, to w as msgpack
func (d *Driver) Snapshot(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := snapshot{Collections: make(map[string]snapshotCollection, len(d.collections))}

	for name, c := range d.collections {
		sc := snapshotCollection{
			Documents: make([]map[string]any, 0, len(c.docs)),
			Indexes:   c.indexes,
		}
		for _, doc := range c.docs {
			sc.Documents = append(sc.Documents, map[string]any(doc))
		}
		s.Collections[name] = sc
	}

	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)

	if err := enc.Encode(&s); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return nil
}

// Restore replaces the contents of the driver with a snapshot read from r
func (d *Driver) Restore(r io.Reader) error {
	dec := msgpack.NewDecoder(r)
	dec.UseLooseInterfaceDecoding(true)

	s := snapshot{}
	if err := dec.Decode(&s); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.collections = make(map[string]*collection, len(s.Collections))

	for name, sc := range s.Collections {
		c := d.collection(name)
		c.indexes = sc.Indexes
		for _, doc := range sc.Documents {
			c.docs = append(c.docs, document.Document(normalize(doc).(map[string]any)))
		}
	}

	return nil
}

// normalize turns the integer widths produced by loose decoding into int64
// and nested interface maps into string keyed maps
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []any:
		for i := range t {
			t[i] = normalize(t[i])
		}
		return t
	case uint64:
		return int64(t)
	}
	return v
}

type collection struct {
	driver  *Driver
	name    string
	docs    []document.Document
	indexes []store.Index
}

func (c *collection) Name() string {
	return c.name
}

func (c *collection) lock() func() {
	c.driver.mu.Lock()
	return c.driver.mu.Unlock
}

func (c *collection) Find(ctx context.Context, filter document.Filter, opts store.FindOptions) ([]document.Document, error) {
	defer c.lock()()

	matches, err := c.match(filter)
	if err != nil {
		return nil, err
	}

	result := make([]document.Document, 0, len(matches))
	for _, idx := range matches {
		result = append(result, c.docs[idx].Clone())
	}

	store.SortDocuments(result, opts.Sort)

	return store.Page(result, opts), nil
}

func (c *collection) FindOne(ctx context.Context, filter document.Filter, opts store.FindOptions) (document.Document, error) {
	opts.Limit = 1

	docs, err := c.Find(ctx, filter, opts)
	if err != nil || len(docs) == 0 {
		return nil, err
	}

	return docs[0], nil
}

func (c *collection) Count(ctx context.Context, filter document.Filter) (int64, error) {
	defer c.lock()()

	matches, err := c.match(filter)
	return int64(len(matches)), err
}

func (c *collection) FindOneAndDelete(ctx context.Context, filter document.Filter) (document.Document, error) {
	defer c.lock()()

	idx, err := c.first(filter)
	if err != nil || idx < 0 {
		return nil, err
	}

	doc := c.docs[idx]
	c.docs = append(c.docs[:idx], c.docs[idx+1:]...)

	return doc, nil
}

func (c *collection) FindOneAndUpdate(ctx context.Context, filter document.Filter, update document.Update, opts store.UpdateOptions) (document.Document, error) {
	defer c.lock()()

	idx, err := c.first(filter)
	if err != nil {
		return nil, err
	}

	if idx < 0 {
		if !opts.Upsert {
			return nil, nil
		}

		doc, err := c.upsert(filter, update, opts)
		if err != nil || !opts.ReturnNew {
			return nil, err
		}
		return doc.Clone(), nil
	}

	before := c.docs[idx]
	after, err := c.replace(idx, update, opts.Overwrite)
	if err != nil {
		return nil, err
	}

	if opts.ReturnNew {
		return after.Clone(), nil
	}

	return before.Clone(), nil
}

func (c *collection) UpdateOne(ctx context.Context, filter document.Filter, update document.Update, opts store.UpdateOptions) (store.UpdateResult, error) {
	return c.update(filter, update, opts, false)
}

func (c *collection) UpdateMany(ctx context.Context, filter document.Filter, update document.Update, opts store.UpdateOptions) (store.UpdateResult, error) {
	if opts.Overwrite {
		return store.UpdateResult{}, store.ErrReplaceMany
	}

	return c.update(filter, update, opts, true)
}

func (c *collection) update(filter document.Filter, update document.Update, opts store.UpdateOptions, many bool) (store.UpdateResult, error) {
	defer c.lock()()

	result := store.UpdateResult{}

	matches, err := c.match(filter)
	if err != nil {
		return result, err
	}

	if !many && len(matches) > 1 {
		matches = matches[:1]
	}

	if len(matches) == 0 {
		if !opts.Upsert {
			return result, nil
		}

		doc, err := c.upsert(filter, update, opts)
		if err != nil {
			return result, err
		}

		result.UpsertedID = doc.ID()
		return result, nil
	}

	// updates are validated against every match before any of them is applied
	updated := make([]document.Document, len(matches))
	for i, idx := range matches {
		if updated[i], err = c.updated(c.docs[idx], update, opts.Overwrite); err != nil {
			return store.UpdateResult{}, err
		}
	}

	for i := range matches {
		if err = c.checkUnique(updated[i], matches...); err != nil {
			return store.UpdateResult{}, err
		}
		if err = c.checkUniqueAmong(updated[i], updated[:i]); err != nil {
			return store.UpdateResult{}, err
		}
	}

	for i, idx := range matches {
		result.MatchedCount++
		if !document.Equal(map[string]any(c.docs[idx]), map[string]any(updated[i])) {
			result.ModifiedCount++
		}
		c.docs[idx] = updated[i]
	}

	return result, nil
}

func (c *collection) DeleteOne(ctx context.Context, filter document.Filter) (int64, error) {
	doc, err := c.FindOneAndDelete(ctx, filter)
	if err != nil || doc == nil {
		return 0, err
	}
	return 1, nil
}

func (c *collection) DeleteMany(ctx context.Context, filter document.Filter) (int64, error) {
	defer c.lock()()

	matches, err := c.match(filter)
	if err != nil || len(matches) == 0 {
		return 0, err
	}

	remove := make(map[int]bool, len(matches))
	for _, idx := range matches {
		remove[idx] = true
	}

	kept := make([]document.Document, 0, len(c.docs)-len(matches))
	for idx, doc := range c.docs {
		if !remove[idx] {
			kept = append(kept, doc)
		}
	}
	c.docs = kept

	return int64(len(matches)), nil
}

func (c *collection) InsertOne(ctx context.Context, doc document.Document) error {
	defer c.lock()()

	return c.insert(doc)
}

// InsertMany inserts in order and stops at the first failure, keeping the
// documents inserted before it
func (c *collection) InsertMany(ctx context.Context, docs []document.Document) error {
	defer c.lock()()

	for _, doc := range docs {
		if err := c.insert(doc); err != nil {
			return err
		}
	}

	return nil
}

func (c *collection) EnsureIndex(ctx context.Context, index store.Index) error {
	defer c.lock()()

	if len(index.Keys) == 0 {
		return fmt.Errorf("index %s has no keys", index.Name)
	}

	if index.Name == "" {
		index.Name = strings.Join(index.Keys, "_")
	}

	for _, existing := range c.indexes {
		if existing.Name == index.Name {
			return nil
		}
	}

	if index.Unique {
		seen := map[string]bool{}
		for _, doc := range c.docs {
			key := indexKey(doc, index)
			if seen[key] {
				return store.NewDuplicateKeyError(c.name, index.Name, key)
			}
			seen[key] = true
		}
	}

	c.indexes = append(c.indexes, index)

	return nil
}

func (c *collection) insert(doc document.Document) error {
	doc = doc.Clone()
	if doc == nil {
		doc = document.Document{}
	}

	if doc.ID() == nil {
		doc[document.IDKey] = document.NewObjectID()
	}

	if err := c.checkUnique(doc); err != nil {
		return err
	}

	c.docs = append(c.docs, doc)

	return nil
}

func (c *collection) upsert(filter document.Filter, update document.Update, opts store.UpdateOptions) (document.Document, error) {
	doc, err := store.Upserted(filter, update, opts.Overwrite)
	if err != nil {
		return nil, err
	}

	if err = c.insert(doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func (c *collection) updated(doc document.Document, update document.Update, overwrite bool) (document.Document, error) {
	if overwrite {
		return store.Replace(doc, update)
	}
	return store.ApplyUpdate(doc, update, false)
}

func (c *collection) replace(idx int, update document.Update, overwrite bool) (document.Document, error) {
	after, err := c.updated(c.docs[idx], update, overwrite)
	if err != nil {
		return nil, err
	}

	if err = c.checkUnique(after, idx); err != nil {
		return nil, err
	}

	c.docs[idx] = after

	return after, nil
}

func (c *collection) match(filter document.Filter) ([]int, error) {
	matches := []int{}

	for idx, doc := range c.docs {
		ok, err := store.Match(doc, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, idx)
		}
	}

	return matches, nil
}

func (c *collection) first(filter document.Filter) (int, error) {
	matches, err := c.match(filter)
	if err != nil || len(matches) == 0 {
		return -1, err
	}
	return matches[0], nil
}

// checkUnique verifies doc against the _id and every unique index, ignoring
// the documents at the excluded positions
func (c *collection) checkUnique(doc document.Document, excluded ...int) error {
	skip := make(map[int]bool, len(excluded))
	for _, idx := range excluded {
		skip[idx] = true
	}

	indexes := append([]store.Index{{Name: "_id_", Keys: []string{document.IDKey}, Unique: true}}, c.indexes...)

	for _, index := range indexes {
		if !index.Unique {
			continue
		}

		key := indexKey(doc, index)

		for idx, other := range c.docs {
			if skip[idx] {
				continue
			}
			if indexKey(other, index) == key {
				return store.NewDuplicateKeyError(c.name, index.Name, key)
			}
		}
	}

	return nil
}

func (c *collection) checkUniqueAmong(doc document.Document, others []document.Document) error {
	for _, index := range c.indexes {
		if !index.Unique {
			continue
		}

		key := indexKey(doc, index)
		for _, other := range others {
			if indexKey(other, index) == key {
				return store.NewDuplicateKeyError(c.name, index.Name, key)
			}
		}
	}

	return nil
}

func indexKey(doc document.Document, index store.Index) string {
	parts := make([]string, 0, len(index.Keys))
	for _, k := range index.Keys {
		v, _ := doc.Get(k)
		parts = append(parts, fmt.Sprintf("%s=%s", k, document.Key(v)))
	}
	return strings.Join(parts, ",")
}
