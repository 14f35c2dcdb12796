package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestContextParams tests bound argument access by name and position
func TestContextParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/user/42/files/a/b", nil)
	ctx := NewContext(httptest.NewRecorder(), req, nil)
	ctx.BindArgs(
		map[string]string{"id": "42"},
		[]string{"id"},
		[]string{"a", "b"},
		"a/b",
	)

	if got := ctx.Param("id"); got != "42" {
		t.Errorf("Expected param id=42, got %q", got)
	}
	// Names are case-insensitive.
	if got := ctx.Param("ID"); got != "42" {
		t.Errorf("Expected case-insensitive lookup to return 42, got %q", got)
	}
	if !ctx.HasParam("id") || ctx.HasParam("missing") {
		t.Error("Expected HasParam to report bound names only")
	}
	if got := ctx.Args(); len(got) != 3 || got[0] != "42" || got[1] != "a" || got[2] != "b" {
		t.Errorf("Expected ordered args [42 a b], got %v", got)
	}
	if got := ctx.Positional(); len(got) != 2 || got[0] != "a" {
		t.Errorf("Expected positional [a b], got %v", got)
	}
	if ctx.CatchAll() != "a/b" {
		t.Errorf("Expected catch-all a/b, got %q", ctx.CatchAll())
	}

	// Params returns a copy.
	ctx.Params()["id"] = "tampered"
	if ctx.Param("id") != "42" {
		t.Error("Expected Params to return a copy")
	}
}

// TestContextScratchStore tests the per-request key/value store
func TestContextScratchStore(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := NewContext(httptest.NewRecorder(), req, nil)

	if ctx.Value("trace") != nil {
		t.Error("Expected missing key to return nil")
	}
	ctx.Set("trace", "abc-123")
	if got := ctx.Value("trace"); got != "abc-123" {
		t.Errorf("Expected stored value, got %v", got)
	}
}

// TestContextURL tests the reverse-routing hook
func TestContextURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := NewContext(httptest.NewRecorder(), req, nil)

	if _, ok := ctx.URL("home", nil); ok {
		t.Error("Expected URL to fail without a resolver")
	}

	ctx.SetURLFor(func(name string, args map[string]string) (string, bool) {
		if name != "user.show" {
			return "", false
		}
		return "https://example.com/user/" + args["id"], true
	})
	got, ok := ctx.URL("user.show", map[string]string{"id": "7"})
	if !ok || got != "https://example.com/user/7" {
		t.Errorf("Expected resolved URL, got %q (ok=%v)", got, ok)
	}
}

// TestContextIsAJAX tests the XHR marker detection
func TestContextIsAJAX(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := NewContext(httptest.NewRecorder(), req, nil)
	if ctx.IsAJAX() {
		t.Error("Expected plain request to not be AJAX")
	}

	req.Header.Set("X-Requested-With", "xmlhttprequest")
	if !ctx.IsAJAX() {
		t.Error("Expected marker header to be detected case-insensitively")
	}
}

// TestNewContextNilLogger tests that a nil logger falls back to a no-op
func TestNewContextNilLogger(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := NewContext(httptest.NewRecorder(), req, nil)
	if ctx.Logger == nil {
		t.Fatal("Expected a non-nil logger")
	}
	// Must not panic.
	ctx.Logger.Debug("noop")
}
