package odm

import (
	"context"
	"errors"
	"testing"

	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/schema"
	"github.com/diwise/tenant-store/pkg/store"
	"github.com/diwise/tenant-store/pkg/store/memory"
	"github.com/diwise/tenant-store/pkg/store/storetest"
	"github.com/diwise/tenant-store/pkg/tenancy"
	"github.com/matryer/is"
)

func TestByTenantScopesFind(t *testing.T) {
	is, ctx, m := testSetup(t)

	_, err := m.ByTenant(1).Create(ctx, document.Document{"name": "a"}, document.Document{"name": "b"})
	is.NoErr(err)
	_, err = m.ByTenant(2).Create(ctx, document.Document{"name": "c"})
	is.NoErr(err)

	found, err := m.ByTenant(1).Find(ctx, nil)
	is.NoErr(err)
	is.Equal(len(found), 2)

	found, err = m.ByTenant(2).Find(ctx, document.Filter{})
	is.NoErr(err)
	is.Equal(len(found), 1)
	is.Equal(found[0].Get("name"), "c")

	all, err := m.Find(ctx, nil)
	is.NoErr(err)
	is.Equal(len(all), 3) // should not scope the base model
}

func TestByTenantScopesCountAndFindOne(t *testing.T) {
	is, ctx, m := testSetup(t)
	seed(t, ctx, m)

	n, err := m.ByTenant(1).Count(ctx, nil)
	is.NoErr(err)
	is.Equal(n, int64(2))

	n, err = m.ByTenant(3).Count(ctx, nil)
	is.NoErr(err)
	is.Equal(n, int64(0))

	e, err := m.ByTenant(2).FindOne(ctx, document.Filter{"name": "a"})
	is.NoErr(err)
	is.True(e == nil) // name a only exists for tenant 1

	e, err = m.ByTenant(1).FindOne(ctx, document.Filter{"name": "a"})
	is.NoErr(err)
	is.Equal(e.Get("name"), "a")
	is.Equal(e.TenantID(), int64(1))
}

func TestFindByIDIsScoped(t *testing.T) {
	is, ctx, m := testSetup(t)

	created, err := m.ByTenant(1).Create(ctx, document.Document{"name": "a"})
	is.NoErr(err)

	e, err := m.ByTenant(2).FindByID(ctx, created[0].ID())
	is.NoErr(err)
	is.True(e == nil)

	e, err = m.ByTenant(1).FindByID(ctx, created[0].ID())
	is.NoErr(err)
	is.Equal(e.ID(), created[0].ID())
}

func TestFindIgnoresCallerTenantCondition(t *testing.T) {
	is, ctx, m := testSetup(t)
	seed(t, ctx, m)

	found, err := m.ByTenant(1).Find(ctx, document.Filter{"tenantId": 2})
	is.NoErr(err)
	is.Equal(len(found), 2) // should replace the tenant condition of the caller

	found, err = m.ByTenant(1).Find(ctx, document.Filter{"tenantId": map[string]any{"$in": []any{1, 2}}})
	is.NoErr(err)
	is.Equal(len(found), 2)
}

func TestFindOneAndRemoveIsScoped(t *testing.T) {
	is, ctx, m := testSetup(t)
	seed(t, ctx, m)

	e, err := m.ByTenant(2).FindOneAndRemove(ctx, document.Filter{"name": "a"})
	is.NoErr(err)
	is.True(e == nil)

	e, err = m.ByTenant(1).FindOneAndRemove(ctx, document.Filter{"name": "a"})
	is.NoErr(err)
	is.Equal(e.Get("name"), "a")

	n, _ := m.Count(ctx, nil)
	is.Equal(n, int64(2))
}

func TestFindOneAndUpdateIsScoped(t *testing.T) {
	is, ctx, m := testSetup(t)
	seed(t, ctx, m)

	e, err := m.ByTenant(2).FindOneAndUpdate(ctx, document.Filter{"name": "a"}, document.Update{"name": "x"})
	is.NoErr(err)
	is.True(e == nil)

	e, err = m.ByTenant(1).FindOneAndUpdate(ctx, document.Filter{"name": "a"}, document.Update{"$set": map[string]any{"name": "x", "tenantId": 2}}, ReturnNew())
	is.NoErr(err)
	is.Equal(e.Get("name"), "x")
	is.Equal(e.TenantID(), int64(1)) // should not move the document to another tenant
}

func TestUpdateCannotChangeTenant(t *testing.T) {
	is, ctx, m := testSetup(t)
	seed(t, ctx, m)

	res, err := m.ByTenant(1).UpdateOne(ctx, document.Filter{"name": "a"}, document.Update{"tenantId": 2, "$set": map[string]any{"tenantId": 2}})
	is.NoErr(err)
	is.Equal(res.MatchedCount, int64(1))

	n, _ := m.ByTenant(2).Count(ctx, nil)
	is.Equal(n, int64(1)) // should still only hold the document seeded for tenant 2

	res, err = m.ByTenant(1).UpdateMany(ctx, nil, document.Update{"$set": map[string]any{"flag": true}})
	is.NoErr(err)
	is.Equal(res.MatchedCount, int64(2))

	flagged, _ := m.Count(ctx, document.Filter{"flag": true})
	is.Equal(flagged, int64(2))
}

func TestOverwriteKeepsTenant(t *testing.T) {
	is, ctx, m := testSetup(t)
	seed(t, ctx, m)

	res, err := m.ByTenant(1).UpdateOne(ctx, document.Filter{"name": "a"}, document.Update{"name": "z", "tenantId": 2}, Overwrite())
	is.NoErr(err)
	is.Equal(res.ModifiedCount, int64(1))

	e, err := m.ByTenant(1).FindOne(ctx, document.Filter{"name": "z"})
	is.NoErr(err)
	is.True(e != nil)
	is.Equal(e.TenantID(), int64(1))
}

func TestUpsertIsStamped(t *testing.T) {
	is, ctx, m := testSetup(t)

	res, err := m.ByTenant(7).UpdateOne(ctx, document.Filter{"name": "new"}, document.Update{"$set": map[string]any{"score": 3}}, Upsert())
	is.NoErr(err)
	is.True(res.UpsertedID != nil)

	e, err := m.ByTenant(7).FindOne(ctx, document.Filter{"name": "new"})
	is.NoErr(err)
	is.Equal(e.TenantID(), int64(7))
	is.Equal(e.Get("score"), int64(3))
}

func TestDeleteIsScoped(t *testing.T) {
	is, ctx, m := testSetup(t)
	seed(t, ctx, m)

	n, err := m.ByTenant(2).DeleteOne(ctx, document.Filter{"name": "b"})
	is.NoErr(err)
	is.Equal(n, int64(0))

	n, err = m.ByTenant(1).DeleteMany(ctx, nil)
	is.NoErr(err)
	is.Equal(n, int64(2))

	left, _ := m.Count(ctx, nil)
	is.Equal(left, int64(1))
}

func TestCreateStampsTenant(t *testing.T) {
	is, ctx, m := testSetup(t)

	created, err := m.ByTenant(1).Create(ctx, document.Document{"name": "a", "tenantId": 2})
	is.NoErr(err)
	is.Equal(created[0].TenantID(), int64(1))
	is.True(!created[0].IsNew())
	is.True(created[0].HasTenantContext())

	n, _ := m.ByTenant(2).Count(ctx, nil)
	is.Equal(n, int64(0))
}

func TestCreateFailsAsAWhole(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	r := NewRegistry(memory.New())
	m, err := r.Model("Item", schema.New(
		schema.Fields(schema.String("name", schema.Required())),
		schema.WithTenancy(tenancy.New()),
	))
	is.NoErr(err)

	created, err := m.ByTenant(1).Create(ctx, document.Document{"name": "a"}, document.Document{})
	is.True(errors.Is(err, schema.ErrValidation))
	is.True(created == nil)

	n, _ := m.Count(ctx, nil)
	is.Equal(n, int64(0)) // should validate every document before writing
}

func TestInsertManyFailureReturnsNoEntities(t *testing.T) {
	is, ctx, m := testSetup(t)
	is.NoErr(m.registry.EnsureIndexes(ctx))

	inserted, err := m.ByTenant(1).InsertMany(ctx, []document.Document{{"name": "a"}, {"name": "a"}})
	is.True(errors.Is(err, store.ErrDuplicateKey))
	is.True(inserted == nil)

	inserted, err = m.ByTenant(2).InsertMany(ctx, []document.Document{{"name": "b"}, {"name": "c"}})
	is.NoErr(err)
	is.Equal(len(inserted), 2)
	is.Equal(inserted[1].TenantID(), int64(2))

	_, err = m.ByTenant(3).InsertMany(ctx, []document.Document{{"name": "b"}})
	is.NoErr(err) // unique indexes are per tenant
}

func TestNewAndSaveRestampsTenant(t *testing.T) {
	is, ctx, m := testSetup(t)

	e := m.ByTenant(1).New(document.Document{"name": "a"})
	is.True(e.IsNew())
	is.True(e.HasTenantContext())
	is.Equal(e.TenantID(), 1)

	e.Set("tenantId", 2)
	is.NoErr(e.Save(ctx))
	is.Equal(e.TenantID(), int64(1))

	e.Set("tenantId", 2)
	e.Set("name", "b")
	is.NoErr(e.Save(ctx))

	found, err := m.ByTenant(1).FindOne(ctx, document.Filter{"name": "b"})
	is.NoErr(err)
	is.True(found != nil)

	n, _ := m.ByTenant(2).Count(ctx, nil)
	is.Equal(n, int64(0))
}

func TestUnscopedEntityHasNoTenantContext(t *testing.T) {
	is, ctx, m := testSetup(t)
	seed(t, ctx, m)

	is.True(!m.New(document.Document{}).HasTenantContext())

	e, err := m.FindOne(ctx, document.Filter{"name": "c"})
	is.NoErr(err)
	is.True(!e.HasTenantContext())
	is.Equal(e.TenantID(), int64(2))

	e, err = m.ByTenant(2).FindOne(ctx, nil)
	is.NoErr(err)
	is.True(e.HasTenantContext())
}

func TestRemoveIsScoped(t *testing.T) {
	is, ctx, m := testSetup(t)
	seed(t, ctx, m)

	e, _ := m.ByTenant(1).FindOne(ctx, document.Filter{"name": "a"})
	is.NoErr(e.Remove(ctx))

	err := e.Remove(ctx)
	is.True(errors.Is(err, ErrDocumentNotFound))
}

func TestUnscopedCreateKeepsSuppliedTenant(t *testing.T) {
	is, ctx, m := testSetup(t)

	created, err := m.Create(ctx,
		document.Document{"name": "a", "tenantId": 1},
		document.Document{"name": "b", "tenantId": 2},
		document.Document{"name": "c"},
	)
	is.NoErr(err)
	is.Equal(len(created), 3)
	is.True(!created[0].HasTenantContext())

	inserted, err := m.InsertMany(ctx, []document.Document{
		{"name": "d", "tenantId": 2},
		{"name": "e"},
	})
	is.NoErr(err)
	is.Equal(len(inserted), 2)

	expected := map[string]any{"a": int64(1), "b": int64(2), "c": nil, "d": int64(2), "e": nil}

	for name, tenant := range expected {
		e, err := m.FindOne(ctx, document.Filter{"name": name})
		is.NoErr(err)

		v, found := e.Document()["tenantId"]
		is.Equal(found, tenant != nil) // should store the tenant exactly as supplied
		is.Equal(v, tenant)
	}

	n, err := m.ByTenant(2).Count(ctx, nil)
	is.NoErr(err)
	is.Equal(n, int64(2))
}

func TestUnscopedUpdateMayChangeTenant(t *testing.T) {
	is, ctx, m := testSetup(t)
	seed(t, ctx, m)

	result, err := m.UpdateOne(ctx, document.Filter{"name": "a"}, document.Update{"tenantId": 2})
	is.NoErr(err)
	is.Equal(result.ModifiedCount, int64(1))

	a, err := m.FindOne(ctx, document.Filter{"name": "a"})
	is.NoErr(err)
	is.Equal(a.Get("tenantId"), int64(2)) // should keep the new tenant

	result, err = m.UpdateMany(ctx, document.Filter{"tenantId": 2}, document.Update{"$set": map[string]any{"tenantId": 3}})
	is.NoErr(err)
	is.Equal(result.ModifiedCount, int64(2))

	n, err := m.ByTenant(3).Count(ctx, nil)
	is.NoErr(err)
	is.Equal(n, int64(2))

	n, err = m.ByTenant(1).Count(ctx, nil)
	is.NoErr(err)
	is.Equal(n, int64(1))
}

func TestScopedUpdateManyRejectsOverwrite(t *testing.T) {
	is, ctx, m := testSetup(t)
	seed(t, ctx, m)

	_, err := m.ByTenant(1).UpdateMany(ctx, nil, document.Update{"tenantId": 2}, Overwrite())
	is.True(errors.Is(err, store.ErrReplaceMany)) // should fail instead of replacing many documents

	for _, name := range []string{"a", "b"} {
		e, err := m.FindOne(ctx, document.Filter{"name": name})
		is.NoErr(err)
		is.Equal(e.Get("name"), name)
		is.Equal(e.TenantID(), int64(1)) // should leave the documents untouched
	}

	n, err := m.ByTenant(2).Count(ctx, nil)
	is.NoErr(err)
	is.Equal(n, int64(1))
}

func TestAccessors(t *testing.T) {
	is := is.New(t)

	r := NewRegistry(memory.New())

	m, _ := r.Model("A", schema.New(schema.WithTenancy(tenancy.New(tenancy.TenantIDKey("customerId")))))
	is.Equal(m.TenantIDKey(), "customerId")

	m, _ = r.Model("B", schema.New(schema.WithTenancy(tenancy.New(tenancy.Accessors(false)))))
	is.Equal(m.TenantIDKey(), "")

	plain, _ := r.Model("C", schema.New())
	is.Equal(plain.TenantIDKey(), "")
	is.True(plain.ByTenant(1) == Handle(plain)) // should hand out the base model when tenancy is off

	disabled, _ := r.Model("D", schema.New(schema.WithTenancy(tenancy.New(tenancy.Enabled(false)))))
	is.True(disabled.ByTenant(1) == Handle(disabled))

	_, err := r.Model("C", nil)
	is.True(errors.Is(err, ErrModelExists))
}

func TestDiscriminatorsAreScoped(t *testing.T) {
	is, ctx, m := testSetup(t)

	admin, err := m.Discriminator("Admin", schema.New(schema.Fields(schema.String("role"))))
	is.NoErr(err)

	_, err = m.ByTenant(1).Create(ctx, document.Document{"name": "a"})
	is.NoErr(err)
	created, err := admin.ByTenant(1).Create(ctx, document.Document{"name": "b", "role": "root"})
	is.NoErr(err)
	is.Equal(created[0].Get(schema.DefaultDiscriminatorKey), "Admin")
	is.Equal(created[0].TenantID(), int64(1))
	_, err = admin.ByTenant(2).Create(ctx, document.Document{"name": "c", "role": "root"})
	is.NoErr(err)

	n, _ := admin.ByTenant(1).Count(ctx, nil)
	is.Equal(n, int64(1))

	n, _ = m.ByTenant(1).Count(ctx, nil)
	is.Equal(n, int64(2)) // the base model sees its discriminators

	found, _ := m.ByTenant(1).Find(ctx, document.Filter{"name": "b"})
	is.Equal(found[0].Model().Name(), "Admin")

	_, ok := m.registry.Lookup("Admin")
	is.True(ok)
	is.Equal(m.Discriminators(), []string{"Admin"})
}

func TestDiscriminatorWithCustomKey(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	r := NewRegistry(memory.New())
	m, _ := r.Model("Animal", schema.New(
		schema.Fields(schema.String("name")),
		schema.DiscriminatorKey("kind"),
		schema.WithTenancy(tenancy.New(tenancy.TenantIDKey("customerId"), tenancy.TenantIDType(document.TypeString))),
	))

	dog, err := m.Discriminator("Dog", nil)
	is.NoErr(err)

	e := m.ByTenant("acme").New(document.Document{"name": "rex", "kind": "Dog"})
	is.Equal(e.Model().Name(), "Dog") // should construct the tagged discriminator
	is.NoErr(e.Save(ctx))

	found, err := dog.ByTenant("acme").Find(ctx, nil)
	is.NoErr(err)
	is.Equal(len(found), 1)
	is.Equal(found[0].Get("customerId"), "acme")

	found, _ = dog.ByTenant("other").Find(ctx, nil)
	is.Equal(len(found), 0)

	_, err = dog.Discriminator("Puppy", nil)
	is.True(err != nil)
}

func TestPopulateWithSameTenantKeyIsScoped(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	r := NewRegistry(memory.New())
	users, _ := r.Model("User", schema.New(schema.Fields(schema.String("name")), schema.WithTenancy(tenancy.New())))
	posts, _ := r.Model("Post", schema.New(
		schema.Fields(schema.String("title"), schema.ObjectID("author", schema.Ref("User"))),
		schema.WithTenancy(tenancy.New()),
	))

	own, _ := users.ByTenant(1).Create(ctx, document.Document{"name": "own"})
	foreign, _ := users.ByTenant(2).Create(ctx, document.Document{"name": "foreign"})

	_, err := posts.ByTenant(1).Create(ctx,
		document.Document{"title": "p1", "author": own[0].ID()},
		document.Document{"title": "p2", "author": foreign[0].ID()},
	)
	is.NoErr(err)

	found, err := posts.ByTenant(1).Find(ctx, nil, Populate("author"), SortBy("title"))
	is.NoErr(err)
	is.Equal(len(found), 2)

	is.Equal(len(found[0].Populated("author")), 1)
	is.True(found[0].Populated("author")[0].HasTenantContext())
	is.Equal(len(found[1].Populated("author")), 0) // should not load documents of another tenant

	unscoped, err := posts.Find(ctx, nil, Populate("author"), SortBy("title"))
	is.NoErr(err)
	is.Equal(len(unscoped[1].Populated("author")), 1)
	is.True(!unscoped[1].Populated("author")[0].HasTenantContext())
}

func TestPopulateWithOtherTenantKeyIsNotScoped(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	r := NewRegistry(memory.New())
	orgs, _ := r.Model("Org", schema.New(schema.Fields(schema.String("name")), schema.WithTenancy(tenancy.New(tenancy.TenantIDKey("orgTenant")))))
	tags, _ := r.Model("Tag", schema.New(schema.Fields(schema.String("name"))))
	posts, _ := r.Model("Post", schema.New(
		schema.Fields(
			schema.ObjectID("org", schema.Ref("Org")),
			schema.ObjectID("tags", schema.Ref("Tag"), schema.Array()),
		),
		schema.WithTenancy(tenancy.New()),
	))

	org, _ := orgs.ByTenant(2).Create(ctx, document.Document{"name": "o"})
	tag, _ := tags.Create(ctx, document.Document{"name": "t1"}, document.Document{"name": "t2"})

	_, err := posts.ByTenant(1).Create(ctx, document.Document{"org": org[0].ID(), "tags": []any{tag[0].ID(), tag[1].ID()}})
	is.NoErr(err)

	post, err := posts.ByTenant(1).FindOne(ctx, nil, Populate("org", "tags"))
	is.NoErr(err)

	is.Equal(len(post.Populated("org")), 1)
	is.True(!post.Populated("org")[0].HasTenantContext()) // should load through the base model
	is.Equal(len(post.Populated("tags")), 2)

	_, err = posts.Find(ctx, nil, Populate("missing"))
	is.True(errors.Is(err, ErrNotAReference))
}

func TestEntityJSONExpandsPopulatedReferences(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	r := NewRegistry(memory.New())
	users, _ := r.Model("User", schema.New(schema.Fields(schema.String("name"))))
	posts, _ := r.Model("Post", schema.New(schema.Fields(schema.ObjectID("author", schema.Ref("User")))))

	u, _ := users.Create(ctx, document.Document{"name": "ann"})
	_, _ = posts.Create(ctx, document.Document{"author": u[0].ID()})

	p, err := posts.FindOne(ctx, nil, Populate("author"))
	is.NoErr(err)

	expanded := p.Expand()
	author, ok := expanded["author"].(map[string]any)
	is.True(ok)
	is.Equal(author["name"], "ann")
}

func TestScopedHandlePassesRewrittenQueriesToTheStore(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	var filters []document.Filter
	var updates []document.Update

	c := &storetest.CollectionMock{
		NameFunc: func() string { return "things" },
		FindFunc: func(ctx context.Context, filter document.Filter, opts store.FindOptions) ([]document.Document, error) {
			filters = append(filters, filter)
			return []document.Document{{"_id": document.NewObjectID(), "tenantId": int64(4)}}, nil
		},
		UpdateManyFunc: func(ctx context.Context, filter document.Filter, update document.Update, opts store.UpdateOptions) (store.UpdateResult, error) {
			filters = append(filters, filter)
			updates = append(updates, update)
			return store.UpdateResult{}, errors.New("store failure")
		},
	}

	r := NewRegistry(&driverMock{c: c})
	m, err := r.Model("Thing", schema.New(schema.Strict(false), schema.WithTenancy(tenancy.New())))
	is.NoErr(err)

	found, err := m.ByTenant(4).Find(ctx, document.Filter{"tenantId": 5, "size": 1})
	is.NoErr(err)
	is.Equal(len(found), 1)
	is.Equal(filters[0], document.Filter{"tenantId": int64(4), "size": 1})

	_, err = m.ByTenant(4).UpdateMany(ctx, nil, document.Update{"$set": map[string]any{"tenantId": 5, "size": 2}})
	is.Equal(err.Error(), "store failure") // should pass store errors through
	is.Equal(len(c.UpdateManyCalls()), 1)
	is.Equal(filters[1], document.Filter{"tenantId": int64(4)})
	is.Equal(updates[0], document.Update{"$set": map[string]any{"tenantId": int64(4), "size": 2}})
}

type driverMock struct {
	c store.Collection
}

func (d *driverMock) Collection(name string) store.Collection {
	return d.c
}

func (d *driverMock) Close(ctx context.Context) error {
	return nil
}

func testSetup(t *testing.T) (*is.I, context.Context, *Model) {
	is := is.New(t)

	r := NewRegistry(memory.New())
	m, err := r.Model("Item", schema.New(
		schema.Fields(schema.String("name"), schema.Number("score"), schema.Boolean("flag")),
		schema.Index("name", true, "name"),
		schema.WithTenancy(tenancy.New()),
	))
	is.NoErr(err)

	return is, context.Background(), m
}

func seed(t *testing.T, ctx context.Context, m *Model) {
	is := is.New(t)

	_, err := m.ByTenant(1).Create(ctx, document.Document{"name": "a"}, document.Document{"name": "b"})
	is.NoErr(err)
	_, err = m.ByTenant(2).Create(ctx, document.Document{"name": "c"})
	is.NoErr(err)
}
