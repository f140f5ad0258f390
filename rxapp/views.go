package rxapp

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
)

// historyColumns are the column headers of the history table, in order.
var historyColumns = []string{"Date", "Patient", "Age", "Phone", "Chief Complaint"}

const appName = "Digital Rx Pro"

const stylesheet = `
body { font-family: system-ui, sans-serif; margin: 0; color: #111; }
header { display: flex; gap: 1rem; align-items: center; padding: .5rem 1rem; border-bottom: 1px solid #ddd; }
header nav { display: flex; gap: .25rem; flex: 1; }
header form { margin: 0; }
main { padding: 1rem; max-width: 48rem; }
.brand { font-weight: 600; }
.btn { cursor: pointer; border-radius: .375rem; padding: .4rem .9rem; border: 1px solid transparent; }
.btn-primary { background: #111; color: #fff; }
.btn-outline { background: #fff; border-color: #ccc; }
.btn-nav { background: none; }
.btn-nav.active { background: #eee; }
.user-menu { background: none; border: 0; cursor: pointer; }
.user-menu p { margin: 0; }
.field { display: flex; flex-direction: column; margin-bottom: .75rem; }
.alert { color: #b00020; }
.toast { background: #e6f6ea; padding: .5rem 1rem; border-radius: .375rem; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: .25rem .5rem; border-bottom: 1px solid #eee; }
`

const patientFilterScript = `
document.querySelectorAll('input[data-filter]').forEach(function (input) {
  var list = document.getElementById(input.dataset.filter);
  input.addEventListener('input', function () {
    var q = input.value.trim().toLowerCase();
    list.querySelectorAll('li').forEach(function (li) {
      li.hidden = q !== '' && li.dataset.name.toLowerCase().indexOf(q) === -1;
    });
  });
});
`

const revealScript = `
document.querySelectorAll('[data-reveal-after]').forEach(function (el) {
  setTimeout(function () { el.hidden = false; }, Number(el.dataset.revealAfter));
});
`

type area string

const (
	areaNone     area = ""
	areaRx       area = "rx"
	areaPatients area = "patients"
	areaHistory  area = "history"
)

// pageProps describe the chrome around a page body.
type pageProps struct {
	Title       string
	DisplayName string
	Active      area
	Scripts     []string
}

// htmlWriter accumulates markup and remembers the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func page(props pageProps, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<title>`)
		h.text(appName + " · " + props.Title)
		h.raw(`</title><style>` + stylesheet + `</style></head><body>`)

		if props.DisplayName != "" {
			h.raw(`<header><span class="brand">` + appName + `</span><nav>`)
			navButton(h, "/doctor/rx", "RX", props.Active == areaRx)
			navButton(h, "/doctor/patient", "Patients", props.Active == areaPatients)
			navButton(h, "/doctor/history/", "History", props.Active == areaHistory)
			h.raw(`</nav><button type="button" class="user-menu" aria-label="User"><p>`)
			h.text(props.DisplayName)
			h.raw(`</p></button>`)
			h.rawf(`<form method="post" action="/logout"><button type="submit" class="%s">Sign out</button></form>`, buttonClasses(buttonVariantOutline, false))
			h.raw(`</header>`)
		}

		h.raw(`<main>`)
		if h.err != nil {
			return h.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</main>`)
		for _, script := range props.Scripts {
			h.raw(`<script>` + script + `</script>`)
		}
		h.raw(`</body></html>`)
		return h.err
	})
}

func navButton(h *htmlWriter, action, label string, active bool) {
	h.rawf(`<form method="get" action="%s"><button type="submit" class="%s">`, action, buttonClasses(buttonVariantNav, active))
	h.text(label)
	h.raw(`</button></form>`)
}

func alert(h *htmlWriter, message string) {
	if message == "" {
		return
	}
	h.raw(`<p role="alert" class="alert">`)
	h.text(message)
	h.raw(`</p>`)
}

func loginView(username, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Sign in</h1>`)
		alert(h, message)
		h.raw(`<form method="post" action="/login">`)
		h.raw(`<div class="field"><label for="username">Username</label><input id="username" name="username" type="text" autocomplete="username" value="`)
		h.text(username)
		h.raw(`"></div>`)
		h.raw(`<div class="field"><label for="password">Password</label><input id="password" name="password" type="password" autocomplete="current-password"></div>`)
		h.rawf(`<button type="submit" class="%s">Login</button></form>`, buttonClasses(buttonVariantDefault, false))
		return h.err
	})
}

func rxView(addPatientDelay time.Duration) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1 class="form-title">Prescription</h1>`)
		h.raw(`<p>Select or register a patient to start a prescription.</p>`)
		if addPatientDelay > 0 {
			h.rawf(`<div id="add-patient" hidden data-reveal-after="%d">`, addPatientDelay.Milliseconds())
		} else {
			h.raw(`<div id="add-patient">`)
		}
		h.rawf(`<form method="get" action="/doctor/rx/add"><button type="submit" class="%s">Add Patient</button></form></div>`, buttonClasses(buttonVariantDefault, false))
		return h.err
	})
}

type patientFormProps struct {
	Title   string
	Action  string
	Name    string
	Age     string
	Phone   string
	Message string
}

func patientFormView(props patientFormProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1 class="form-title">`)
		h.text(props.Title)
		h.raw(`</h1>`)
		alert(h, props.Message)
		h.rawf(`<form method="post" action="%s">`, props.Action)
		h.raw(`<div class="field"><label for="patient-name">Patient Name</label><input id="patient-name" name="name" type="text" value="`)
		h.text(props.Name)
		h.raw(`"></div>`)
		h.raw(`<div class="field"><label for="patient-age">Years</label><input id="patient-age" name="age" type="text" inputmode="numeric" value="`)
		h.text(props.Age)
		h.raw(`"></div>`)
		h.raw(`<div class="field"><input name="phone" type="text" inputmode="tel" placeholder="e.x: 016********" value="`)
		h.text(props.Phone)
		h.raw(`"></div>`)
		h.rawf(`<button type="submit" class="%s">Submit</button></form>`, buttonClasses(buttonVariantDefault, false))
		return h.err
	})
}

func prescriptionView(p Patient, saved bool, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1 class="form-title">Prescription</h1>`)
		if saved {
			h.raw(`<div role="status" class="toast">Prescription saved</div>`)
		}
		alert(h, message)
		h.raw(`<p class="patient-summary">`)
		h.text(fmt.Sprintf("%s · %s years · %s", p.Name, p.Age, p.Phone))
		h.raw(`</p>`)
		h.rawf(`<form method="post" action="/doctor/rx/patient/%s">`, p.ID)
		h.raw(`<div class="field"><label for="chief-complaint">Chief Complaint</label><textarea id="chief-complaint" name="chiefComplaint" rows="3"></textarea></div>`)
		h.rawf(`<button type="submit" class="%s">Save</button></form>`, buttonClasses(buttonVariantDefault, false))
		return h.err
	})
}

func patientListView(patients []Patient, flash string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Patients</h1>`)
		if flash != "" {
			h.raw(`<div role="status" class="toast">`)
			h.text(flash)
			h.raw(`</div>`)
		}
		h.rawf(`<form method="get" action="/doctor/patient/add"><button type="submit" class="%s">Create Patient</button></form>`, buttonClasses(buttonVariantDefault, false))
		h.raw(`<div class="field"><input type="text" aria-label="search patient" placeholder="Search" data-filter="patients"></div>`)
		h.raw(`<ul id="patients">`)
		for _, p := range patients {
			h.raw(`<li data-name="`)
			h.text(p.Name)
			h.raw(`"><span class="patient-name">`)
			h.text(p.Name)
			h.raw(`</span> <span class="patient-meta">`)
			h.text(fmt.Sprintf("%s years · %s", p.Age, p.Phone))
			h.raw(`</span></li>`)
		}
		h.raw(`</ul>`)
		if len(patients) == 0 {
			h.raw(`<p class="empty">No patients yet.</p>`)
		}
		return h.err
	})
}

func historyView(rows []HistoryRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>History</h1><table id="history"><thead><tr>`)
		for _, col := range historyColumns {
			h.raw(`<th>`)
			h.text(col)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, row := range rows {
			h.raw(`<tr>`)
			for _, cell := range []string{row.Date.Format(time.DateTime), row.Patient, row.Age, row.Phone, row.ChiefComplaint} {
				h.raw(`<td>`)
				h.text(cell)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table>`)
		if len(rows) == 0 {
			h.raw(`<p class="empty">No prescriptions saved yet.</p>`)
		}
		return h.err
	})
}
