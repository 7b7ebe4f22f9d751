package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/zalando/go-keyring"

	"pbsms/internal/app"
	"pbsms/internal/domain"
)

const validKey = "o.validkey"

type fakePushbullet struct {
	mu       sync.Mutex
	calls    map[string]int
	hang     map[string]bool
	devices  string
	devCode  int
	textCode int
	textBody string
	lastText domain.SmsRequest
}

func newFakePushbullet() *fakePushbullet {
	return &fakePushbullet{
		calls:    map[string]int{},
		hang:     map[string]bool{},
		devices:  `{"devices":[{"iden":"off","active":true,"has_sms":false},{"iden":"phone1","active":true,"has_sms":true}]}`,
		devCode:  http.StatusOK,
		textCode: http.StatusOK,
		textBody: `{}`,
	}
}

func (f *fakePushbullet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls[r.URL.Path]++
	hang := f.hang[r.URL.Path]
	f.mu.Unlock()

	if hang {
		<-r.Context().Done()
		return
	}
	if r.Header.Get("Access-Token") != validKey {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.URL.Path {
	case "/users/me":
		_, _ = w.Write([]byte(`{"iden":"u1","email":"a@example.com","name":"A"}`))
	case "/devices":
		w.WriteHeader(f.devCode)
		_, _ = w.Write([]byte(f.devices))
	case "/texts":
		_ = json.NewDecoder(r.Body).Decode(&f.lastText)
		w.WriteHeader(f.textCode)
		_, _ = w.Write([]byte(f.textBody))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakePushbullet) setHang(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hang[path] = true
}

func (f *fakePushbullet) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

type env struct {
	pb   *fakePushbullet
	home string
}

// setup points the CLI at fake Pushbullet and probe servers. online sets the
// probe's answer.
func setup(t *testing.T, online bool) *env {
	t.Helper()
	pb := newFakePushbullet()
	api := httptest.NewServer(pb)
	t.Cleanup(api.Close)

	probe := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !online {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	t.Cleanup(probe.Close)

	home := filepath.Join(t.TempDir(), "PBSMS")
	t.Setenv("PBSMS_HOME", home)
	t.Setenv("PBSMS_BASE_URL", api.URL)
	t.Setenv("PBSMS_PROBE_URL", probe.URL)
	t.Setenv("PBSMS_CIPHER", "host")
	t.Setenv("PBSMS_VALIDATE_TIMEOUT", "200ms")
	t.Setenv("PBSMS_REQUEST_TIMEOUT", "200ms")
	t.Setenv("PBSMS_PROBE_TIMEOUT", "1s")
	return &env{pb: pb, home: home}
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	if args == nil {
		args = []string{}
	}
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func mustStoreKey(t *testing.T) {
	t.Helper()
	if _, stderr, err := run(t, "APIKey="+validKey); err != nil {
		t.Fatalf("store key: %v\n%s", err, stderr)
	}
}

func TestNoArgs_PrintsHelp(t *testing.T) {
	stdout, _, err := run(t)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	for _, want := range []string{"Usage:", "APIKey=remove", "<phone number> <message>"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("help missing %q:\n%s", want, stdout)
		}
	}
}

func TestWrongArgCount_Fails(t *testing.T) {
	setup(t, true)
	for _, args := range [][]string{{"+15551234567"}, {"a", "b", "c"}} {
		stdout, stderr, err := run(t, args...)
		if !errors.Is(err, errFailed) {
			t.Fatalf("%v: err = %v", args, err)
		}
		if !strings.Contains(stderr, "Error: Invalid number of arguments.") {
			t.Fatalf("%v: stderr = %q", args, stderr)
		}
		if !strings.Contains(stdout, "Usage:") {
			t.Fatalf("%v: help not printed", args)
		}
	}
}

func TestStoreKey_ValidatedAndSaved(t *testing.T) {
	e := setup(t, true)
	stdout, stderr, err := run(t, "APIKey="+validKey)
	if err != nil {
		t.Fatalf("err: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "Success: Pushbullet API key has been validated and saved.") {
		t.Fatalf("stdout = %q", stdout)
	}
	b, err := os.ReadFile(filepath.Join(e.home, "settings.dat"))
	if err != nil {
		t.Fatalf("read settings: %v", err)
	}
	if bytes.Contains(b, []byte(validKey)) {
		t.Fatal("key stored in plaintext")
	}
}

func TestStoreKey_KeywordCaseInsensitive(t *testing.T) {
	setup(t, true)
	if _, stderr, err := run(t, "apikey="+validKey); err != nil {
		t.Fatalf("err: %v\n%s", err, stderr)
	}
}

func TestStoreKey_BadFormat_NoNetwork(t *testing.T) {
	e := setup(t, true)
	_, stderr, err := run(t, "APIKey=bad")
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "Error: Invalid Pushbullet API key. Key must start with 'o.'") {
		t.Fatalf("stderr = %q", stderr)
	}
	if n := e.pb.count("/users/me"); n != 0 {
		t.Fatalf("validate called %d times", n)
	}
}

func TestStoreKey_Missing(t *testing.T) {
	setup(t, true)
	_, stderr, err := run(t, "APIKey=  ")
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "Error: Pushbullet API key is missing.") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestStoreKey_Rejected(t *testing.T) {
	e := setup(t, true)
	_, stderr, err := run(t, "APIKey=o.wrong")
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "Error: The API key could not be validated by Pushbullet.") {
		t.Fatalf("stderr = %q", stderr)
	}
	if _, err := os.Stat(filepath.Join(e.home, "settings.dat")); !os.IsNotExist(err) {
		t.Fatalf("settings written for rejected key: %v", err)
	}
}

func TestStoreKey_TimeoutOnline(t *testing.T) {
	e := setup(t, true)
	e.pb.setHang("/users/me")
	_, stderr, err := run(t, "APIKey="+validKey)
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "Error: Pushbullet did not respond within 200ms.") {
		t.Fatalf("stderr = %q", stderr)
	}
	if !strings.Contains(stderr, "could not be validated") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestRemoveKey(t *testing.T) {
	e := setup(t, true)

	stdout, _, err := run(t, "APIKey=remove")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !strings.Contains(stdout, "Info: No stored Pushbullet API key was found to remove.") {
		t.Fatalf("stdout = %q", stdout)
	}

	mustStoreKey(t)
	stdout, _, err = run(t, "APIKey=REMOVE")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !strings.Contains(stdout, "Success: Pushbullet API key has been removed.") {
		t.Fatalf("stdout = %q", stdout)
	}
	if _, err := os.Stat(e.home); !os.IsNotExist(err) {
		t.Fatalf("empty home not removed: %v", err)
	}
}

func TestSend_Delivered(t *testing.T) {
	e := setup(t, true)
	mustStoreKey(t)

	stdout, stderr, err := run(t, "+15551234567", "Hello")
	if err != nil {
		t.Fatalf("err: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "Success: SMS message sent successfully.") {
		t.Fatalf("stdout = %q", stdout)
	}
	got := e.pb.lastText.Data
	if got.TargetDeviceIden != "phone1" || len(got.Addresses) != 1 || got.Addresses[0] != "+15551234567" || got.Message != "Hello" {
		t.Fatalf("request = %+v", got)
	}
}

func TestSend_RemoteRejection_ExitsZero(t *testing.T) {
	e := setup(t, true)
	mustStoreKey(t)
	e.pb.textCode = http.StatusBadRequest
	e.pb.textBody = `{"error":{"type":"invalid_request","message":"Invalid address","cat":"~(=^‥^)ノ"}}`

	stdout, _, err := run(t, "+15551234567", "Hello")
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if !strings.Contains(stdout, "Failed: Invalid address (HTTP 400)") {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestSend_RemoteRejectionWithoutEnvelope(t *testing.T) {
	e := setup(t, true)
	mustStoreKey(t)
	e.pb.textCode = http.StatusInternalServerError
	e.pb.textBody = `oops`

	stdout, _, err := run(t, "+15551234567", "Hello")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stdout, "Failed: HTTP 500 - Internal Server Error") {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestSend_NoDevice(t *testing.T) {
	e := setup(t, true)
	mustStoreKey(t)
	e.pb.devices = `{"devices":[{"iden":"d1","active":false,"has_sms":true}]}`

	_, stderr, err := run(t, "+15551234567", "Hello")
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "No SMS-capable device found.") {
		t.Fatalf("stderr = %q", stderr)
	}
	if n := e.pb.count("/texts"); n != 0 {
		t.Fatalf("texts called %d times", n)
	}
}

func TestSend_DevicesHTTPError(t *testing.T) {
	e := setup(t, true)
	mustStoreKey(t)
	e.pb.devCode = http.StatusInternalServerError

	_, stderr, err := run(t, "+15551234567", "Hello")
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "Error retrieving SMS-capable device: Failed to retrieve devices: HTTP 500") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestSend_TimeoutOffline(t *testing.T) {
	e := setup(t, false)
	mustStoreKey(t)
	e.pb.setHang("/devices")

	_, stderr, err := run(t, "+15551234567", "Hello")
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "Unable to reach the internet. Please check your connection.") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestSend_NoStoredKey(t *testing.T) {
	e := setup(t, true)
	_, stderr, err := run(t, "+15551234567", "Hello")
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "Could not find a stored Pushbullet API key.") ||
		!strings.Contains(stderr, "PBSMS APIKey=<Pushbullet API Key>") {
		t.Fatalf("stderr = %q", stderr)
	}
	if n := e.pb.count("/devices"); n != 0 {
		t.Fatalf("devices called %d times", n)
	}
}

func TestSend_InvalidInput_NoNetwork(t *testing.T) {
	e := setup(t, true)
	mustStoreKey(t)

	tests := []struct {
		phone, msg, want string
	}{
		{" ", "Hello", "Error: Phone number cannot be empty."},
		{"+15551234567", " ", "Error: Message cannot be empty."},
		{"15551234567", "Hello", "Error: Phone number must be in international format (e.g., +1234567890)."},
		{"+1555-1234", "Hello", "Error: Phone number must contain only digits after the + sign."},
		{"+12345", "Hello", "Error: Phone number must be between 6 and 15 digits (inclusive)."},
		{"+1234567890123456", "Hello", "Error: Phone number must be between 6 and 15 digits (inclusive)."},
	}
	for _, tc := range tests {
		_, stderr, err := run(t, tc.phone, tc.msg)
		if !errors.Is(err, errFailed) {
			t.Fatalf("%q %q: err = %v", tc.phone, tc.msg, err)
		}
		if !strings.Contains(stderr, tc.want) {
			t.Fatalf("%q %q: stderr = %q, want %q", tc.phone, tc.msg, stderr, tc.want)
		}
	}
	if n := e.pb.count("/devices"); n != 0 {
		t.Fatalf("devices called %d times", n)
	}
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := run(t, "--version")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !strings.HasPrefix(stdout, "PBSMS v") {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestStoreKey_TimeoutOffline(t *testing.T) {
	e := setup(t, false)
	e.pb.setHang("/users/me")

	_, stderr, err := run(t, "APIKey="+validKey)
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "Error: Unable to reach the internet. Please check your connection.") {
		t.Fatalf("stderr = %q", stderr)
	}
	if !strings.Contains(stderr, "Error: The API key could not be validated by Pushbullet.") {
		t.Fatalf("stderr = %q", stderr)
	}
	if _, err := os.Stat(filepath.Join(e.home, "settings.dat")); !os.IsNotExist(err) {
		t.Fatalf("settings written after timeout: %v", err)
	}
}

func TestSend_TextTimeoutOnline(t *testing.T) {
	e := setup(t, true)
	mustStoreKey(t)
	e.pb.setHang("/texts")

	stdout, stderr, err := run(t, "+15551234567", "Hello")
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "Pushbullet did not respond within 200ms.") {
		t.Fatalf("stderr = %q", stderr)
	}
	if strings.Contains(stdout, "Success") || strings.Contains(stdout, "Failed:") {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestSend_MalformedDevices(t *testing.T) {
	e := setup(t, true)
	mustStoreKey(t)
	e.pb.mu.Lock()
	e.pb.devices = `{"devices":[`
	e.pb.mu.Unlock()

	_, stderr, err := run(t, "+15551234567", "Hello")
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "Error retrieving SMS-capable device: Decoding devices") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestSend_MessageStartingWithDash(t *testing.T) {
	e := setup(t, true)
	mustStoreKey(t)

	stdout, stderr, err := run(t, "+15551234567", "-5 degrees outside")
	if err != nil {
		t.Fatalf("err: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "Success: SMS message sent successfully.") {
		t.Fatalf("stdout = %q", stdout)
	}
	if got := e.pb.lastText.Data.Message; got != "-5 degrees outside" {
		t.Fatalf("message = %q", got)
	}
}

func TestFlagsBeforeArgs(t *testing.T) {
	setup(t, true)
	stdout, stderr, err := run(t, "-v", "APIKey=remove")
	if err != nil {
		t.Fatalf("err: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "Info: No stored Pushbullet API key was found to remove.") {
		t.Fatalf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "wired") {
		t.Fatalf("verbose log missing: %q", stderr)
	}
}

func TestHostCipher_Warns(t *testing.T) {
	setup(t, true)
	_, stderr, err := run(t, "APIKey=remove")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !strings.Contains(stderr, "Warning: "+app.HostCipherWarning) {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestKeyringCipher_StoreAndSend(t *testing.T) {
	keyring.MockInit()
	e := setup(t, true)
	t.Setenv("PBSMS_CIPHER", "keyring")

	_, stderr, err := run(t, "APIKey="+validKey)
	if err != nil {
		t.Fatalf("store: %v\n%s", err, stderr)
	}
	if strings.Contains(stderr, "Warning:") {
		t.Fatalf("unexpected warning: %q", stderr)
	}
	b, err := os.ReadFile(filepath.Join(e.home, "settings.dat"))
	if err != nil {
		t.Fatalf("read settings: %v", err)
	}
	if bytes.Contains(b, []byte(validKey)) {
		t.Fatal("key stored in plaintext")
	}

	stdout, stderr, err := run(t, "+15551234567", "Hello")
	if err != nil {
		t.Fatalf("send: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "Success: SMS message sent successfully.") {
		t.Fatalf("stdout = %q", stdout)
	}

	keyring.MockInit() // master key gone
	_, stderr, err = run(t, "+15551234567", "Hello")
	if !errors.Is(err, errFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "Could not find a stored Pushbullet API key.") {
		t.Fatalf("stderr = %q", stderr)
	}
}
