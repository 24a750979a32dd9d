package fixture

import (
	"testing"

	"github.com/sunholo/boundsafe/internal/typedast"
)

const s1Fixture = `{
  "id": "s1",
  "decls": [
    {"pos": {"node_id": 1}, "name": "f", "codomain": [{"kind": "prim", "name": "int"}]}
  ],
  "defs": [
    {
      "pos": {"node_id": 2},
      "name": "f",
      "body": {
        "kind": "let",
        "pos": {"node_id": 3},
        "type": {"kind": "prim", "name": "int"},
        "pattern": {"kind": "var", "pos": {"node_id": 4}, "name": "a", "type": {"kind": "apply", "ctor": "array", "args": [{"kind": "prim", "name": "int"}]}},
        "value": {
          "kind": "apply",
          "pos": {"node_id": 5},
          "type": {"kind": "apply", "ctor": "array", "args": [{"kind": "prim", "name": "int"}]},
          "func": "amake",
          "args": [
            {"kind": "value", "pos": {"node_id": 6}, "type": {"kind": "prim", "name": "int"}, "n": 0},
            {"kind": "value", "pos": {"node_id": 7}, "type": {"kind": "prim", "name": "int"}, "n": 10}
          ]
        },
        "body": {
          "kind": "apply",
          "pos": {"node_id": 8},
          "type": {"kind": "prim", "name": "int"},
          "func": "aget",
          "args": [
            {"kind": "id", "pos": {"node_id": 9}, "type": {"kind": "apply", "ctor": "array", "args": [{"kind": "prim", "name": "int"}]}, "name": "a"},
            {"kind": "value", "pos": {"node_id": 10}, "type": {"kind": "prim", "name": "int"}, "n": 10}
          ]
        }
      }
    }
  ]
}`

func TestLoad_BuildsModuleShape(t *testing.T) {
	mod, err := Load([]byte(s1Fixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mod.ID != "s1" {
		t.Fatalf("expected module id s1, got %q", mod.ID)
	}
	if len(mod.Decls) != 1 || mod.Decls[0].Name != "f" {
		t.Fatalf("unexpected decls: %#v", mod.Decls)
	}
	if len(mod.Defs) != 1 || mod.Defs[0].Name != "f" {
		t.Fatalf("unexpected defs: %#v", mod.Defs)
	}
	let, ok := mod.Defs[0].Body.(*typedast.Elet)
	if !ok {
		t.Fatalf("expected top-level let, got %T", mod.Defs[0].Body)
	}
	if _, ok := let.Value.(*typedast.Eapply); !ok {
		t.Fatalf("expected amake application as let value, got %T", let.Value)
	}
	if _, ok := let.Body.(*typedast.Eapply); !ok {
		t.Fatalf("expected aget application as let body, got %T", let.Body)
	}
}

func TestLoad_RejectsUnknownExprKind(t *testing.T) {
	data := `{"id": "m", "defs": [{"pos": {}, "name": "f", "body": {"kind": "nonsense", "pos": {}, "type": {"kind": "prim", "name": "int"}}}]}`
	if _, err := Load([]byte(data)); err == nil {
		t.Fatal("expected an error for an unknown expression kind")
	}
}

func TestLoad_RejectsUnknownTypeKind(t *testing.T) {
	data := `{"id": "m", "decls": [{"pos": {}, "name": "f", "domain": [{"kind": "bogus"}]}]}`
	if _, err := Load([]byte(data)); err == nil {
		t.Fatal("expected an error for an unknown type kind")
	}
}
