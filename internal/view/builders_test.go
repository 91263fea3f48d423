package view

import (
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/csemotors/internal/model"
)

func TestNav(t *testing.T) {
	got := string(Nav([]model.Classification{{ID: 1, Name: "Custom"}, {ID: 4, Name: "SUV"}}))

	if !strings.HasPrefix(got, `<ul><li><a href="/" title="Home page">Home</a></li>`) {
		t.Errorf("nav should start with Home link: %s", got)
	}
	if !strings.Contains(got, `<a href="/inv/type/4" title="See our inventory of SUV vehicles">SUV</a>`) {
		t.Errorf("nav missing SUV link: %s", got)
	}
	if !strings.HasSuffix(got, `</ul>`) {
		t.Errorf("nav not closed: %s", got)
	}
}

func TestNavEscapes(t *testing.T) {
	got := string(Nav([]model.Classification{{ID: 9, Name: `<script>alert(1)</script>`}}))
	if strings.Contains(got, "<script>") {
		t.Errorf("classification name not escaped: %s", got)
	}
}

func TestClassificationGridEmpty(t *testing.T) {
	got := string(ClassificationGrid(nil))
	want := `<p class="notice">Sorry, no matching vehicles could be found.</p>`
	if got != want {
		t.Errorf("grid = %q, want %q", got, want)
	}
}

func TestClassificationGrid(t *testing.T) {
	got := string(ClassificationGrid([]model.Vehicle{{
		ID:        3,
		Make:      "Chevy",
		Model:     "Camaro",
		Thumbnail: "/images/vehicles/camaro-tn.jpg",
		Price:     25000,
	}}))

	for _, want := range []string{
		`<ul id="inv-display">`,
		`href="/inv/detail/3"`,
		`src="/images/vehicles/camaro-tn.jpg"`,
		`Chevy Camaro`,
		`<span>$25,000</span>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("grid missing %q: %s", want, got)
		}
	}
}

func TestItemListing(t *testing.T) {
	if got := string(ItemListing(nil)); !strings.Contains(got, noVehicles) {
		t.Errorf("nil listing = %q, want notice", got)
	}

	got := string(ItemListing(&model.Vehicle{
		Make:               "Ford",
		Model:              "Model T",
		Year:               "1965",
		Description:        "Tom & Jerry's favourite",
		Image:              "/images/vehicles/model-t.jpg",
		Price:              19999.99,
		Miles:              101222,
		Color:              "Black",
		ClassificationName: "Sedan",
	}))
	for _, want := range []string{
		`<h2>1965 Ford Model T</h2>`,
		`$19,999.99`,
		`<dd>101,222</dd>`,
		`<dd>Sedan</dd>`,
		`Tom &amp; Jerry&#39;s favourite`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("listing missing %q: %s", want, got)
		}
	}
}

func TestClassificationList(t *testing.T) {
	classifications := []model.Classification{{ID: 1, Name: "Custom"}, {ID: 2, Name: "Sedan"}}

	got := string(ClassificationList(classifications, 2))
	if !strings.Contains(got, `<option value="2" selected>Sedan</option>`) {
		t.Errorf("Sedan should be selected: %s", got)
	}
	if !strings.Contains(got, `<option value="1">Custom</option>`) {
		t.Errorf("Custom should not be selected: %s", got)
	}

	got = string(ClassificationList(classifications, 0))
	if strings.Contains(got, "selected") {
		t.Errorf("nothing should be selected: %s", got)
	}
}

func TestRecipientList(t *testing.T) {
	got := string(RecipientList([]model.AccountSummary{
		{ID: 1, FirstName: "Ada", LastName: "Lovelace"},
		{ID: 2, FirstName: "Grace", LastName: "Hopper"},
	}, 2))

	if !strings.Contains(got, `<select name="message_to"`) {
		t.Errorf("missing select: %s", got)
	}
	if !strings.Contains(got, `<option value="2" selected>Grace Hopper</option>`) {
		t.Errorf("Grace should be preselected: %s", got)
	}
	if !strings.Contains(got, `<option value="1">Ada Lovelace</option>`) {
		t.Errorf("Ada option missing: %s", got)
	}
}

func TestInbox(t *testing.T) {
	got := string(Inbox([]model.Message{
		{ID: 5, Subject: "Camaro <question>", Created: time.Now(), FromFirstName: "Ada", FromType: model.AccountClient, Read: true},
		{ID: 6, Subject: "Follow up", Created: time.Now(), FromFirstName: "Ada", FromType: model.AccountClient},
	}))

	if !strings.Contains(got, `<a href="/message/view/5">Camaro &lt;question&gt;</a>`) {
		t.Errorf("subject not linked or not escaped: %s", got)
	}
	if strings.Count(got, "&#10003;") != 1 {
		t.Errorf("expected one read mark: %s", got)
	}
	if !strings.Contains(got, "<td>Ada Client</td>") {
		t.Errorf("sender column missing: %s", got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"usd cents", FormatUSD(19999.99), "$19,999.99"},
		{"usd whole", FormatUSD(25000), "$25,000.00"},
		{"number whole", FormatNumber(28045), "28,045"},
		{"number cents", FormatNumber(1234.5), "1,234.50"},
		{"int", FormatInt(101222), "101,222"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestToggleTheme(t *testing.T) {
	if got := ToggleTheme(ThemeDark); got != ThemeLight {
		t.Errorf("ToggleTheme(dark) = %q, want light", got)
	}
	if got := ToggleTheme(ThemeLight); got != ThemeDark {
		t.Errorf("ToggleTheme(light) = %q, want dark", got)
	}
	if got := ToggleTheme(""); got != ThemeDark {
		t.Errorf("ToggleTheme(\"\") = %q, want dark", got)
	}
}
