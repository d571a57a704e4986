package factory

import "testing"

type source struct{ Capacity int }

type sourceConf struct {
	Capacity int `json:"capacity"`
}

func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*source]()
	if err := reg.Register("memory", func(conf map[string]any) (*source, error) {
		var c sourceConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &source{Capacity: c.Capacity}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "memory", Conf: map[string]any{"capacity": 32}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.Capacity != 32 {
		t.Fatalf("expected 32 got %d", inst.Capacity)
	}
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.Register("y", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	if _, err := reg.Create(ModuleConfig{Type: "unknown"}); err == nil {
		t.Fatal("expected unknown type error")
	}
}
