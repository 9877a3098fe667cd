package schema

import (
	"errors"
	"testing"

	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/tenancy"
	"github.com/google/uuid"
	"github.com/matryer/is"
)

func TestTenancyAddsTenantField(t *testing.T) {
	is := is.New(t)

	s := New(Fields(String("name")), WithTenancy(tenancy.New(tenancy.RequireTenantID(true))))

	f, ok := s.Field(tenancy.DefaultTenantIDKey)
	is.True(ok)                               // should declare the tenant field
	is.Equal(f.Type, document.TypeIdentifier) // should use the configured tenant type
	is.True(f.Required)

	indexes := s.Indexes()
	is.Equal(len(indexes), 1)
	is.Equal(indexes[0].Keys, []string{tenancy.DefaultTenantIDKey}) // should index the tenant field
}

func TestDisabledTenancyDoesNotAddTenantField(t *testing.T) {
	is := is.New(t)

	s := New(WithTenancy(tenancy.New(tenancy.Enabled(false))))

	_, ok := s.Field(tenancy.DefaultTenantIDKey)
	is.True(!ok)
}

func TestUniqueIndexesAreCompoundedWithTenant(t *testing.T) {
	is := is.New(t)

	s := New(
		Fields(String("name")),
		Index("name_unique", true, "name"),
		Index("name", false, "name"),
		WithTenancy(tenancy.New(tenancy.TenantIDKey("customTenantId"))),
	)

	indexes := s.Indexes()
	is.Equal(indexes[0].Keys, []string{"customTenantId", "name"}) // should prefix unique indexes with the tenant key
	is.Equal(indexes[1].Keys, []string{"name"})                   // should leave other indexes as is

	s = New(Index("name_unique", true, "name"), WithTenancy(tenancy.New(tenancy.IndexesWithTenant(false))))
	is.Equal(s.Indexes()[0].Keys, []string{"name"}) // should not compound when disabled
}

func TestCastIsStrictByDefault(t *testing.T) {
	is := is.New(t)

	s := New(Fields(String("name"), Number("n")))

	id := uuid.NewString()
	doc, err := s.Cast(document.Document{"_id": id, "name": "x", "n": "4", "unknown": true, "__t": "Child"})
	is.NoErr(err)

	is.Equal(doc["n"], int64(4))  // should cast declared fields
	is.Equal(doc["_id"], id)      // should keep the id
	is.Equal(doc["__t"], "Child") // should keep the discriminator tag
	_, ok := doc["unknown"]
	is.True(!ok) // should drop undeclared fields
}

func TestCastWithoutStrictKeepsUnknownFields(t *testing.T) {
	is := is.New(t)

	s := New(Strict(false))

	doc, err := s.Cast(document.Document{"unknown": true})
	is.NoErr(err)
	is.Equal(doc["unknown"], true)
}

func TestCastReportsInvalidValues(t *testing.T) {
	is := is.New(t)

	s := New(Fields(Number("n")))

	_, err := s.Cast(document.Document{"_id": "A", "n": "four"})
	is.True(errors.Is(err, ErrValidation))

	var verr *ValidationError
	is.True(errors.As(err, &verr))
	is.Equal(len(verr.Errors), 2) // should report every failing field
}

func TestCastArrays(t *testing.T) {
	is := is.New(t)

	s := New(Fields(ObjectID("childs", Array(), Ref("Child"))))

	a, b := uuid.New(), uuid.New()

	doc, err := s.Cast(document.Document{"childs": []uuid.UUID{a, b}})
	is.NoErr(err)
	is.Equal(doc["childs"], []any{a.String(), b.String()})

	doc, err = s.Cast(document.Document{"childs": a.String()})
	is.NoErr(err)
	is.Equal(doc["childs"], []any{a.String()}) // should wrap single values
}

func TestValidateRequired(t *testing.T) {
	is := is.New(t)

	s := New(Fields(String("name", Required())))

	is.True(errors.Is(s.Validate(document.Document{}), ErrValidation))
	is.NoErr(s.Validate(document.Document{"name": "x"}))
}

func TestCastFilter(t *testing.T) {
	is := is.New(t)

	s := New(Fields(Number("n")), WithTenancy(tenancy.New()))

	f := s.CastFilter(document.Filter{
		"n":        map[string]any{"$in": []any{"1", "x"}},
		"tenantId": 1,
		"$or":      []any{map[string]any{"n": "2"}},
		"other":    "kept",
	})

	is.Equal(f["n"], map[string]any{"$in": []any{int64(1), "x"}}) // should cast what can be cast and keep the rest
	is.Equal(f["tenantId"], int64(1))
	is.Equal(f["$or"], []any{map[string]any{"n": int64(2)}})
	is.Equal(f["other"], "kept")

	is.True(s.CastFilter(nil) == nil)
}

func TestCastUpdateMovesFlatFieldsIntoSet(t *testing.T) {
	is := is.New(t)

	s := New(Fields(Number("n"), String("name"), String("tags", Array())), WithTenancy(tenancy.New()))

	u, err := s.CastUpdate(document.Update{
		"tenantId": 1,
		"unknown":  true,
		"$set":     map[string]any{"n": "3"},
		"$inc":     map[string]any{"n": 1},
		"$push":    map[string]any{"tags": 5},
	})
	is.NoErr(err)

	is.Equal(u["$set"], map[string]any{"tenantId": int64(1), "n": int64(3)}) // should merge flat fields into $set and drop unknown ones
	is.Equal(u["$inc"], map[string]any{"n": 1})
	is.Equal(u["$push"], map[string]any{"tags": "5"}) // should cast pushed elements
	_, ok := u["tenantId"]
	is.True(!ok)
}

func TestCastUpdatePassesMalformedOperatorsThrough(t *testing.T) {
	is := is.New(t)

	u, err := New().CastUpdate(document.Update{"$set": "oops"})
	is.NoErr(err)
	is.Equal(u["$set"], "oops")
}

func TestExtendForDiscriminators(t *testing.T) {
	is := is.New(t)

	base := New(Fields(String("name")), DiscriminatorKey("kind"), WithTenancy(tenancy.New()))
	child := base.Extend(New(Fields(Boolean("inherit"))))

	_, ok := child.Field("inherit")
	is.True(ok)
	_, ok = child.Field("name")
	is.True(ok)
	_, ok = child.Field("tenantId")
	is.True(ok) // should inherit the tenant field
	is.Equal(child.DiscriminatorKey(), "kind")
	is.Equal(child.Tenancy(), base.Tenancy())
}
