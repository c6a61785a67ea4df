package web

import (
	"bytes"
	"strings"
	"testing"
)

func TestStatusClass(t *testing.T) {
	cases := map[string]string{
		"Out for Delivery":  "status-out-for-delivery",
		"  Pending  Pickup": "status-pending-pickup",
		"Delivered":         "status-delivered",
		"":                  "status-unknown",
	}
	for input, want := range cases {
		if got := StatusClass(input); got != want {
			t.Fatalf("StatusClass(%q) want %s got %s", input, want, got)
		}
	}
}

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("parse templates failed: %v", err)
	}
	for _, name := range []string{
		"home.html", "track.html", "map_view.html", "create_parcel.html", "login.html",
		"dashboard.html", "edit_parcel.html", "handle_requests.html", "print_label.html",
		"security.html", "support.html",
	} {
		if tmpl.Lookup(name) == nil {
			t.Fatalf("template %s not found", name)
		}
	}
}

func TestTrackTemplateEscapesFlashes(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("parse templates failed: %v", err)
	}
	var buf bytes.Buffer
	data := map[string]interface{}{
		"NotFound": true,
		"Flashes":  []string{"<script>x</script>"},
	}
	if err := tmpl.ExecuteTemplate(&buf, "track.html", data); err != nil {
		t.Fatalf("execute track.html failed: %v", err)
	}
	body := buf.String()
	if !strings.Contains(body, "No parcel matched your search.") {
		t.Fatalf("not-found message missing")
	}
	if strings.Contains(body, "<script>x</script>") || !strings.Contains(body, "&lt;script&gt;") {
		t.Fatalf("flash message should be escaped")
	}
}
