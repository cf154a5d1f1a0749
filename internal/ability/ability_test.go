package ability

import (
	"testing"

	"github.com/and0p/chaos-core/internal/component"
	"github.com/and0p/chaos-core/internal/entity"
	"github.com/and0p/chaos-core/internal/event"
)

func TestCastFailsWithoutGrant(t *testing.T) {
	reg := component.NewRegistry()
	caster := entity.New("wizard", reg)

	fireball := New("fireball", func(caster *entity.Entity, args CastArgs) (*event.Event, error) {
		return event.NewEvent(), nil
	})

	if _, err := fireball.Cast(caster, CastArgs{}); err == nil {
		t.Fatal("expected cast to fail without a matching Grant")
	}
}

func TestCastSucceedsWithGrant(t *testing.T) {
	reg := component.NewRegistry()
	caster := entity.New("wizard", reg)
	caster.LearnAbility(entity.Grant{Ability: "fireball"})

	called := false
	fireball := New("fireball", func(caster *entity.Entity, args CastArgs) (*event.Event, error) {
		called = true
		return event.NewEvent(), nil
	})

	if _, err := fireball.Cast(caster, CastArgs{}); err != nil {
		t.Fatalf("expected cast to succeed, got %v", err)
	}
	if !called {
		t.Fatal("expected cast function to run")
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	reg := NewRegistry()
	a := New("heal", nil)
	reg.Register(a)

	got, ok := reg.Get("heal")
	if !ok || got != a {
		t.Fatal("expected registered ability to be retrievable")
	}
	if _, ok := reg.Get("missing"); ok {
		t.Fatal("expected missing ability lookup to fail")
	}
}
