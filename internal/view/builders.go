package view

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/dukerupert/csemotors/internal/model"
)

const noVehicles = "Sorry, no matching vehicles could be found."

var esc = template.HTMLEscapeString

// Nav builds the site navigation: Home followed by one link per
// classification.
func Nav(classifications []model.Classification) template.HTML {
	var b strings.Builder
	b.WriteString(`<ul>`)
	b.WriteString(`<li><a href="/" title="Home page">Home</a></li>`)
	for _, c := range classifications {
		name := esc(c.Name)
		fmt.Fprintf(&b, `<li><a href="/inv/type/%d" title="See our inventory of %s vehicles">%s</a></li>`,
			c.ID, name, name)
	}
	b.WriteString(`</ul>`)
	return template.HTML(b.String())
}

func ClassificationGrid(vehicles []model.Vehicle) template.HTML {
	if len(vehicles) == 0 {
		return template.HTML(`<p class="notice">` + noVehicles + `</p>`)
	}

	var b strings.Builder
	b.WriteString(`<ul id="inv-display">`)
	for _, v := range vehicles {
		name := esc(v.Make + " " + v.Model)
		fmt.Fprintf(&b, `<li>`+
			`<a href="/inv/detail/%d" title="View %s details">`+
			`<img src="%s" alt="Image of %s on CSE Motors"></a>`+
			`<div class="namePrice"><hr><h2><a href="/inv/detail/%d">%s</a></h2>`+
			`<span>$%s</span></div>`+
			`</li>`,
			v.ID, name, esc(v.Thumbnail), name, v.ID, name, esc(FormatNumber(v.Price)))
	}
	b.WriteString(`</ul>`)
	return template.HTML(b.String())
}

// ItemListing builds the vehicle detail block. A nil vehicle yields the
// not-found notice.
func ItemListing(v *model.Vehicle) template.HTML {
	if v == nil {
		return template.HTML(`<p class="notice">` + noVehicles + `</p>`)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<section class="car-listing">`+
		`<img src="%s" alt="%s %s">`+
		`<div class="car-information">`+
		`<h2>%s %s %s</h2>`+
		`<div class="price">%s</div>`+
		`<div class="description"><p>%s</p>`+
		`<dl><dt>MILEAGE</dt><dd>%s</dd><dt>COLOR</dt><dd>%s</dd><dt>CLASS</dt><dd>%s</dd></dl>`+
		`</div></div></section>`,
		esc(v.Image), esc(v.Make), esc(v.Model),
		esc(v.Year), esc(v.Make), esc(v.Model),
		esc(FormatUSD(v.Price)),
		esc(v.Description),
		esc(FormatInt(v.Miles)), esc(v.Color), esc(v.ClassificationName))
	return template.HTML(b.String())
}

// ClassificationList builds the classification select with selected
// preselected. Zero selects nothing.
func ClassificationList(classifications []model.Classification, selected int64) template.HTML {
	var b strings.Builder
	b.WriteString(`<select name="classification_id" id="classificationList" required>`)
	b.WriteString(`<option value="">Choose a Classification</option>`)
	for _, c := range classifications {
		fmt.Fprintf(&b, `<option value="%d"%s>%s</option>`, c.ID, selectedAttr(c.ID == selected), esc(c.Name))
	}
	b.WriteString(`</select>`)
	return template.HTML(b.String())
}

func RecipientList(accounts []model.AccountSummary, preselected int64) template.HTML {
	var b strings.Builder
	b.WriteString(`<select name="message_to" id="messageTo" required>`)
	b.WriteString(`<option value="">Select a recipient</option>`)
	for _, a := range accounts {
		fmt.Fprintf(&b, `<option value="%d"%s>%s %s</option>`,
			a.ID, selectedAttr(a.ID == preselected), esc(a.FirstName), esc(a.LastName))
	}
	b.WriteString(`</select>`)
	return template.HTML(b.String())
}

// Inbox builds the message table with received time, subject link, sender
// and a read mark.
func Inbox(messages []model.Message) template.HTML {
	var b strings.Builder
	b.WriteString(`<table class="inbox"><thead><tr>`)
	b.WriteString(`<th>Received</th><th>Subject</th><th>From</th><th>Read</th>`)
	b.WriteString(`</tr></thead><tbody>`)
	for _, m := range messages {
		read := ""
		if m.Read {
			read = "&#10003;"
		}
		fmt.Fprintf(&b, `<tr><td>%s</td><td><a href="/message/view/%d">%s</a></td><td>%s %s</td><td>%s</td></tr>`,
			esc(FormatTime(m.Created)), m.ID, esc(m.Subject), esc(m.FromFirstName), esc(string(m.FromType)), read)
	}
	b.WriteString(`</tbody></table>`)
	return template.HTML(b.String())
}

func selectedAttr(selected bool) string {
	if selected {
		return " selected"
	}
	return ""
}
