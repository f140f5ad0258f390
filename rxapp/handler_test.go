package rxapp_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumitdasdk/DRX-pro/rxapp"
)

type testClient struct {
	t       *testing.T
	server  *httptest.Server
	client  *http.Client
	handler *rxapp.Handler
}

func newTestClient(t *testing.T, opts ...rxapp.HandlerOption) *testClient {
	t.Helper()

	opts = append([]rxapp.HandlerOption{rxapp.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	handler := rxapp.NewHandler(opts...)
	server := httptest.NewServer(handler)
	t.Cleanup(func() {
		server.Close()
		handler.Close()
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testClient{
		t:       t,
		server:  server,
		client:  &http.Client{Jar: jar, Timeout: 5 * time.Second},
		handler: handler,
	}
}

// do returns the final response after redirects with its body read.
func (c *testClient) do(resp *http.Response, err error) (*http.Response, string) {
	c.t.Helper()
	require.NoError(c.t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(body)
}

func (c *testClient) get(path string) (*http.Response, string) {
	return c.do(c.client.Get(c.server.URL + path))
}

func (c *testClient) post(path string, values url.Values) (*http.Response, string) {
	return c.do(c.client.PostForm(c.server.URL+path, values))
}

func (c *testClient) signIn() {
	c.t.Helper()
	resp, _ := c.post("/login", url.Values{"username": {rxapp.DefaultUsername}, "password": {rxapp.DefaultPassword}})
	require.Equal(c.t, "/doctor/rx", resp.Request.URL.Path)
}

func TestHandler_LoginScreen(t *testing.T) {
	c := newTestClient(t)

	resp, body := c.get("/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<label for="username">Username</label>`)
	assert.Contains(t, body, `<label for="password">Password</label>`)
	assert.Contains(t, body, `>Login</button>`)
	assert.NotContains(t, body, `aria-label="User"`, "no user menu before sign-in")
}

func TestHandler_SignIn(t *testing.T) {
	c := newTestClient(t)

	resp, body := c.post("/login", url.Values{"username": {"Sadman"}, "password": {"Sadman1#"}})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/doctor/rx", resp.Request.URL.Path)
	assert.Contains(t, body, `<button type="button" class="user-menu" aria-label="User"><p>Dr. Sadman Soeb Adib</p></button>`)
	assert.Contains(t, body, `>Add Patient</button>`)
	for _, nav := range []string{">RX</button>", ">Patients</button>", ">History</button>"} {
		assert.Contains(t, body, nav)
	}
	assert.Equal(t, 1, c.handler.Sessions().Len())

	// Signed-in visitors skip the login screen
	resp, _ = c.get("/")
	assert.Equal(t, "/doctor/rx", resp.Request.URL.Path)
}

func TestHandler_SignInRejected(t *testing.T) {
	c := newTestClient(t)

	resp, body := c.post("/login", url.Values{"username": {"Sadman"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid username or password")
	assert.Contains(t, body, `value="Sadman"`)
	assert.Equal(t, 0, c.handler.Sessions().Len())
}

func TestHandler_CustomCredentials(t *testing.T) {
	c := newTestClient(t, rxapp.WithCredentials("doc", "pw"), rxapp.WithDisplayName("Dr. Who"))

	resp, body := c.post("/login", url.Values{"username": {"doc"}, "password": {"pw"}})

	assert.Equal(t, "/doctor/rx", resp.Request.URL.Path)
	assert.Contains(t, body, "<p>Dr. Who</p>")
}

func TestHandler_ProtectedRoutesRedirectToLogin(t *testing.T) {
	c := newTestClient(t)

	for _, path := range []string{"/doctor/rx", "/doctor/rx/add", "/doctor/patient", "/doctor/patient/add", "/doctor/history/"} {
		t.Run(path, func(t *testing.T) {
			resp, body := c.get(path)
			assert.Equal(t, "/", resp.Request.URL.Path)
			assert.Contains(t, body, ">Login</button>")
		})
	}
}

func TestHandler_Logout(t *testing.T) {
	c := newTestClient(t)
	c.signIn()

	resp, _ := c.post("/logout", nil)
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Equal(t, 0, c.handler.Sessions().Len())

	resp, _ = c.get("/doctor/rx")
	assert.Equal(t, "/", resp.Request.URL.Path)
}

func TestHandler_CreatePatient(t *testing.T) {
	c := newTestClient(t)
	c.signIn()

	resp, body := c.get("/doctor/patient/add")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<label for="patient-name">Patient Name</label>`)
	assert.Contains(t, body, `<label for="patient-age">Years</label>`)
	assert.Contains(t, body, `placeholder="e.x: 016********"`)
	assert.Contains(t, body, `>Submit</button>`)

	resp, body = c.post("/doctor/patient/add", url.Values{"name": {"Alice_143210"}, "age": {"34"}, "phone": {"0171234210"}})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/doctor/patient", resp.Request.URL.Path)
	assert.Empty(t, resp.Request.URL.RawQuery, "the list URL carries no query")
	assert.Contains(t, body, `<span class="patient-name">Alice_143210</span>`)
	assert.Contains(t, body, `<div role="status" class="toast">Patient created</div>`)
	assert.Equal(t, 1, strings.Count(body, ">Alice_143210<"), "the name is shown by the list entry only")
	assert.Contains(t, body, `aria-label="search patient"`)
	assert.Contains(t, body, `>Create Patient</button>`)

	_, body = c.get("/doctor/patient")
	assert.NotContains(t, body, "Patient created", "notice is shown once")
	assert.Contains(t, body, "Alice_143210")
}

func TestHandler_CreatePatientValidation(t *testing.T) {
	tests := []struct {
		name    string
		values  url.Values
		message string
	}{
		{
			name:    "missing name",
			values:  url.Values{"name": {" "}, "age": {"34"}, "phone": {"0171234210"}},
			message: "Patient name is required",
		},
		{
			name:    "age not a number",
			values:  url.Values{"name": {"Alice"}, "age": {"thirty"}, "phone": {"0171234210"}},
			message: "Age must be a number of years",
		},
		{
			name:    "phone too short",
			values:  url.Values{"name": {"Alice"}, "age": {"34"}, "phone": {"017"}},
			message: "Phone must contain 6 to 15 digits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t)
			c.signIn()

			resp, body := c.post("/doctor/patient/add", tt.values)

			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			assert.Contains(t, body, tt.message)
			assert.Empty(t, c.handler.Store().Patients(""))
		})
	}
}

func TestHandler_SanitizesInput(t *testing.T) {
	c := newTestClient(t)
	c.signIn()

	c.post("/doctor/patient/add", url.Values{"name": {"<script>alert(1)</script><b>Eve</b> & Co"}, "age": {"40"}, "phone": {"0171234567"}})

	patients := c.handler.Store().Patients("")
	require.Len(t, patients, 1)
	assert.Equal(t, "Eve & Co", patients[0].Name)

	_, body := c.get("/doctor/patient")
	assert.Contains(t, body, "Eve &amp; Co")
	assert.NotContains(t, body, "<script>alert")
}

func TestHandler_PrescriptionFlow(t *testing.T) {
	c := newTestClient(t)
	c.signIn()

	resp, body := c.get("/doctor/rx/add")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<h1 class="form-title">Add Patient</h1>`)

	resp, body = c.post("/doctor/rx/add", url.Values{"name": {"RxPatient_101010"}, "age": {"26"}, "phone": {"013000001010"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Request.URL.Path, "/doctor/rx/patient/"))
	assert.Contains(t, body, `<h1 class="form-title">Prescription</h1>`)
	assert.Contains(t, body, `<label for="chief-complaint">Chief Complaint</label>`)
	assert.Contains(t, body, `>Save</button>`)
	assert.NotContains(t, body, "Prescription saved")

	formPath := resp.Request.URL.Path

	resp, body = c.post(formPath, url.Values{"chiefComplaint": {"Fever and headache for 3 days"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "saved=1", resp.Request.URL.RawQuery)
	assert.Contains(t, body, `<div role="status" class="toast">Prescription saved</div>`)

	_, body = c.get("/doctor/history/")
	assert.Contains(t, body, "<td>RxPatient_101010</td>")
	assert.Contains(t, body, "<td>Fever and headache for 3 days</td>")
}

func TestHandler_PrescriptionRequiresComplaint(t *testing.T) {
	c := newTestClient(t)
	c.signIn()

	resp, _ := c.post("/doctor/rx/add", url.Values{"name": {"RxPatient"}, "age": {"26"}, "phone": {"0130000010"}})
	resp, body := c.post(resp.Request.URL.Path, url.Values{"chiefComplaint": {"  "}})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Chief complaint is required")
	assert.Empty(t, c.handler.Store().History())
}

func TestHandler_PrescriptionUnknownPatient(t *testing.T) {
	c := newTestClient(t)
	c.signIn()

	resp, body := c.get("/doctor/rx/patient/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Invalid patient id")

	resp, body = c.get("/doctor/rx/patient/0190c1f0-0000-7000-8000-000000000000")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Patient not found")
}

func TestHandler_EmptyHistory(t *testing.T) {
	c := newTestClient(t)
	c.signIn()

	resp, body := c.get("/doctor/history")

	assert.Equal(t, "/doctor/history/", resp.Request.URL.Path)
	assert.Contains(t, body, "<h1>History</h1>")
	assert.Contains(t, body, "<th>Date</th><th>Patient</th><th>Age</th><th>Phone</th><th>Chief Complaint</th>")
	assert.Contains(t, body, "<tbody></tbody>")
}

func TestHandler_AddPatientDelay(t *testing.T) {
	c := newTestClient(t, rxapp.WithAddPatientDelay(1500*time.Millisecond))
	c.signIn()

	_, body := c.get("/doctor/rx")

	assert.Contains(t, body, `<div id="add-patient" hidden data-reveal-after="1500">`)
}

func TestHandler_Healthz(t *testing.T) {
	c := newTestClient(t)

	resp, body := c.get("/healthz")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
}
