package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/signalsfoundry/rocketcfg/core"
	"github.com/signalsfoundry/rocketcfg/internal/config"
	"github.com/signalsfoundry/rocketcfg/internal/designs"
	"github.com/signalsfoundry/rocketcfg/internal/logging"
	"github.com/signalsfoundry/rocketcfg/internal/observability"
	"github.com/signalsfoundry/rocketcfg/internal/report"
)

// runCLI executes one invocation from an empty working directory so no
// .rocketcfg.toml on the host leaks in.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	err = newApp().execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func decode[T any](t *testing.T, data string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		t.Fatalf("json.Unmarshal: %v\n%s", err, data)
	}
	return v
}

func TestDesignsCommand(t *testing.T) {
	out, _, err := runCLI(t, "designs", "-o", "json")
	if err != nil {
		t.Fatalf("designs: %v", err)
	}
	list := decode[report.DesignList](t, out)

	var names []string
	for _, d := range list.Designs {
		names = append(names, d.Name)
	}
	if diff := cmp.Diff([]string{"alpha-iii", "beta", "falcon9-heavy"}, names); diff != "" {
		t.Fatalf("designs (-want +got):\n%s", diff)
	}
	if list.Designs[2].Rocket != "Falcon9 Heavy" || list.Designs[2].Stages != 3 {
		t.Fatalf("falcon9-heavy = %+v", list.Designs[2])
	}
}

func TestDescribeText(t *testing.T) {
	out, _, err := runCLI(t, "describe", "-d", "beta")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	for _, want := range []string{"Beta", "[B4-4; C6-0]", "Sustainer Motor Tube"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDescribeCustomReference(t *testing.T) {
	out, _, err := runCLI(t, "describe", "-d", "falcon9-heavy", "-o", "json",
		"--reference-type", "custom", "--reference-length", "0.05")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	d := decode[report.Rocket](t, out)
	if d.ReferenceType != "custom" {
		t.Fatalf("ReferenceType = %q, want custom", d.ReferenceType)
	}
	if got := d.Configurations[0].ReferenceLength; math.Abs(got-0.05) > 1e-9 {
		t.Fatalf("ReferenceLength = %v, want 0.05", got)
	}
}

func TestDescribeUnknownConfiguration(t *testing.T) {
	_, _, err := runCLI(t, "describe", "-d", "falcon9-heavy", "--config-id", "nope")
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestDescribeSingleConfiguration(t *testing.T) {
	out, _, err := runCLI(t, "describe", "-d", "alpha-iii", "-o", "json", "--config-id", "default")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	c := decode[report.Configuration](t, out)
	if c.ID != "default" || !c.Selected || len(c.Motors) != 0 {
		t.Fatalf("configuration = %+v", c)
	}
}

func TestEnvironmentSelectsDesign(t *testing.T) {
	t.Setenv("ROCKETCFG_DESIGN", "beta")
	t.Setenv("ROCKETCFG_OUTPUT", "json")
	out, _, err := runCLI(t, "configs")
	if err != nil {
		t.Fatalf("configs: %v", err)
	}
	list := decode[report.ConfigurationList](t, out)
	if list.Rocket != "Beta" || len(list.Configurations) != 1 {
		t.Fatalf("configs = %+v", list)
	}
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rocketcfg.toml")
	body := "design = \"falcon9-heavy\"\noutput = \"json\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, _, err := runCLI(t, "configs", "--config", path)
	if err != nil {
		t.Fatalf("configs: %v", err)
	}
	if list := decode[report.ConfigurationList](t, out); list.Rocket != "Falcon9 Heavy" {
		t.Fatalf("rocket = %q, want Falcon9 Heavy", list.Rocket)
	}

	out, _, err = runCLI(t, "configs", "--config", path, "-d", "beta")
	if err != nil {
		t.Fatalf("configs: %v", err)
	}
	if list := decode[report.ConfigurationList](t, out); list.Rocket != "Beta" {
		t.Fatalf("rocket = %q, want Beta from the flag", list.Rocket)
	}

	if _, _, err := runCLI(t, "configs", "--config", filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatalf("missing explicit config file accepted")
	}
}

func TestConfigsSelect(t *testing.T) {
	out, _, err := runCLI(t, "configs", "-d", "alpha-iii", "-o", "json")
	if err != nil {
		t.Fatalf("configs: %v", err)
	}
	list := decode[report.ConfigurationList](t, out)
	if len(list.Configurations) != 6 || !list.Configurations[0].Selected {
		t.Fatalf("configs = %+v", list)
	}

	if _, _, err := runCLI(t, "configs", "-d", "alpha-iii", "--select", "nope"); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("select error = %v, want ErrInvalidArgument", err)
	}
}

func TestInstancesWithStages(t *testing.T) {
	out, _, err := runCLI(t, "instances", "-d", "falcon9-heavy", "-o", "json", "--stages", "1")
	if err != nil {
		t.Fatalf("instances: %v", err)
	}
	in := decode[report.Instances](t, out)
	if len(in.Instances) == 0 {
		t.Fatalf("no instances")
	}
	first := in.Instances[0]
	if first.Component != "Core Stage" || math.Abs(first.Location.X-0.564) > 1e-5 {
		t.Fatalf("first instance = %+v, want Core Stage at x 0.564", first)
	}
	for _, i := range in.Instances {
		if i.Component == "Booster Stage" || i.Component == "Payload Fairing Stage" {
			t.Fatalf("inactive stage enumerated: %+v", i)
		}
	}

	if _, _, err := runCLI(t, "instances", "-d", "falcon9-heavy", "--stages", "9"); !errors.Is(err, core.ErrIndexOutOfRange) {
		t.Fatalf("stage 9 error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestMotorsFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "motors.json")
	jsonBody := `[
  {"designation": "D12", "manufacturer": {"name": "Estes", "abbreviation": "E"}, "total_impulse": 16.8, "delays": [3, 5]},
  {"designation": "C6", "manufacturer": {"name": "Estes"}, "total_impulse": 10}
]`
	if err := os.WriteFile(jsonPath, []byte(jsonBody), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, _, err := runCLI(t, "motors", "-m", "estes", "-o", "json", "--motors", jsonPath)
	if err != nil {
		t.Fatalf("motors: %v", err)
	}
	var got []string
	for _, m := range decode[report.Catalog](t, out).Motors {
		got = append(got, m.Designation)
	}
	if diff := cmp.Diff([]string{"A8", "B4", "C6", "D12"}, got); diff != "" {
		t.Fatalf("estes motors (-want +got):\n%s", diff)
	}
}

func TestLoadMotors(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "motors.toml")
	tomlBody := `
[[motor]]
designation = "H128"
total_impulse = 176
  [motor.manufacturer]
  name = "AeroTech"

[[motor]]
designation = "G77"
`
	if err := os.WriteFile(tomlPath, []byte(tomlBody), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	badPath := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(badPath, []byte("{"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ctx := context.Background()
	log := logging.Noop()
	cases := []struct {
		name string
		path string
		want int
	}{
		{"toml with duplicate", tomlPath, 1},
		{"malformed", badPath, 0},
		{"missing", filepath.Join(dir, "missing.json"), 0},
		{"unset", "", 0},
	}
	for _, tc := range cases {
		cat := designs.DefaultCatalog()
		if got := loadMotors(ctx, log, cat, tc.path); len(got) != tc.want {
			t.Fatalf("%s: loadMotors = %v, want %d motors", tc.name, got, tc.want)
		}
		if cat.Len() != len(designs.DefaultMotors)+tc.want {
			t.Fatalf("%s: catalog holds %d motors", tc.name, cat.Len())
		}
	}
}

const planBody = `
design = "falcon9-heavy"

[[configuration]]
id = "core-only"
stages = [1]

  [[configuration.motor]]
  mount = "Core Stage Body"
  designation = "M1350"
  plugged = true

[[configuration]]
id = "full"
copy_of = "core-only"
stages = [0, 1, 2]
select = true

  [[configuration.motor]]
  mount = "Booster Motor Tubes"
  designation = "G77"
  delay = 4
`

func TestPlanApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.toml")
	if err := os.WriteFile(path, []byte(planBody), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, _, err := runCLI(t, "plan", "apply", path, "-o", "json")
	if err != nil {
		t.Fatalf("plan apply: %v", err)
	}
	d := decode[report.Rocket](t, out)
	if len(d.Configurations) != 3 {
		t.Fatalf("configurations = %d, want 3", len(d.Configurations))
	}
	full := d.Configurations[2]
	if full.ID != "full" || !full.Selected || full.Name != "[[No stage motors]; M1350-P; 4×G77-4]" {
		t.Fatalf("full = %+v", full)
	}

	if _, _, err := runCLI(t, "plan", "apply", filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Fatalf("missing plan accepted")
	}
}

func TestMetricsDump(t *testing.T) {
	_, stderr, err := runCLI(t, "describe", "-d", "beta", "--metrics")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	for _, want := range []string{
		`rocketcfg_command_duration_seconds_count{command="describe"} 1`,
		`rocketcfg_configurations 1`,
		`rocketcfg_enumerations_total`,
	} {
		if !strings.Contains(stderr, want) {
			t.Fatalf("metrics dump missing %q:\n%s", want, stderr)
		}
	}
}

func TestInvalidSettingsRejected(t *testing.T) {
	if _, _, err := runCLI(t, "describe", "-o", "yaml"); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("output yaml error = %v, want ErrInvalidConfig", err)
	}
	if _, _, err := runCLI(t, "describe", "-d", "saturn-v"); !errors.Is(err, designs.ErrUnknownDesign) {
		t.Fatalf("unknown design error = %v, want ErrUnknownDesign", err)
	}
}

// newServeApp prepares an app the way before does, without cobra.
func newServeApp(t *testing.T) (*app, *core.Rocket) {
	t.Helper()
	a := newApp()
	var err error
	if a.cfg, err = config.Load(viper.New()); err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if a.metrics, err = observability.NewEngineCollector(prometheus.NewRegistry()); err != nil {
		t.Fatalf("NewEngineCollector: %v", err)
	}
	a.catalog = designs.DefaultCatalog()
	r, err := a.buildRocket(context.Background(), "falcon9-heavy")
	if err != nil {
		t.Fatalf("buildRocket: %v", err)
	}
	return a, r
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestServeMux(t *testing.T) {
	a, r := newServeApp(t)
	srv := httptest.NewServer(a.newServeMux(r))
	defer srv.Close()

	status, body := get(t, srv.URL+"/configs")
	if status != http.StatusOK {
		t.Fatalf("/configs status = %d", status)
	}
	d := decode[report.Rocket](t, body)
	if d.Name != "Falcon9 Heavy" || len(d.Configurations) != 1 {
		t.Fatalf("/configs = %+v", d)
	}

	id := d.Configurations[0].ID
	status, body = get(t, srv.URL+"/configs/"+id)
	if status != http.StatusOK {
		t.Fatalf("/configs/%s status = %d", id, status)
	}
	if c := decode[report.Configuration](t, body); math.Abs(c.LengthAerodynamic-1.364) > 1e-5 {
		t.Fatalf("LengthAerodynamic = %v, want 1.364", c.LengthAerodynamic)
	}

	status, body = get(t, srv.URL+"/configs/"+id+"/instances")
	if status != http.StatusOK || len(decode[report.Instances](t, body).Instances) == 0 {
		t.Fatalf("/instances status = %d body = %s", status, body)
	}

	if status, _ := get(t, srv.URL+"/configs/nope"); status != http.StatusNotFound {
		t.Fatalf("/configs/nope status = %d, want 404", status)
	}

	status, body = get(t, srv.URL+"/metrics")
	if status != http.StatusOK || !strings.Contains(body, "rocketcfg_enumerations_total") {
		t.Fatalf("/metrics status = %d body = %s", status, body)
	}
}

func TestRunServerStopsOnCancel(t *testing.T) {
	a, r := newServeApp(t)
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.runServer(ctx, lis, r)
	}()

	if status, _ := get(t, "http://"+lis.Addr().String()+"/configs"); status != http.StatusOK {
		t.Fatalf("/configs status = %d", status)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("runServer returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("runServer did not stop after cancel")
	}
}

func TestPlanWatcherReloadsMotors(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.toml")
	motorsPath := filepath.Join(dir, "motors.toml")
	writeFile := func(path, body string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	planFor := func(name string) string {
		return `
design = "falcon9-heavy"

[[configuration]]
id = "watched"
name = "` + name + `"
stages = [1]
select = true

  [[configuration.motor]]
  mount = "Core Stage Body"
  designation = "X10"
`
	}
	writeFile(planPath, planFor("first"))
	writeFile(motorsPath, "[[motor]]\ndesignation = \"X9\"\n")

	ctx := context.Background()
	a, _ := newServeApp(t)
	a.cfg.Output = "json"
	a.fileMotors = loadMotors(ctx, a.log, a.catalog, motorsPath)

	var out bytes.Buffer
	pw := &planWatcher{a: a, w: &out, planPath: planPath}
	unsubscribe := a.catalog.Subscribe(pw.catalogEvent(ctx))
	defer unsubscribe()

	writeFile(motorsPath, "[[motor]]\ndesignation = \"X10\"\n  [motor.manufacturer]\n  name = \"Acme\"\n")
	// X10 is only on disk so far; the plan is rejected.
	pw.handle(ctx, planPath)
	if out.Len() != 0 {
		t.Fatalf("plan applied before its motor was loaded:\n%s", out.String())
	}

	pw.handle(ctx, motorsPath)
	if diff := cmp.Diff([]string{"X10"}, a.fileMotors); diff != "" {
		t.Fatalf("file motors (-want +got):\n%s", diff)
	}
	if _, ok := a.catalog.Motor("X9"); ok {
		t.Fatalf("motor X9 survived the reload")
	}
	if !strings.Contains(out.String(), "X10") {
		t.Fatalf("catalog change did not re-apply the plan:\n%s", out.String())
	}

	out.Reset()
	writeFile(planPath, planFor("second"))
	pw.handle(ctx, planPath)
	rocket := decode[report.Rocket](t, out.String())
	var names []string
	for _, c := range rocket.Configurations {
		names = append(names, c.Name)
	}
	if !slices.Contains(names, "second") {
		t.Fatalf("configuration names = %v, want one named second", names)
	}

	out.Reset()
	writeFile(motorsPath, "{")
	pw.handle(ctx, motorsPath)
	if _, ok := a.catalog.Motor("X10"); ok || len(a.fileMotors) != 0 {
		t.Fatalf("malformed motors file kept %v", a.fileMotors)
	}
	if out.Len() != 0 {
		t.Fatalf("plan applied without its motor:\n%s", out.String())
	}
}
