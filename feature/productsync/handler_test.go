package productsync

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"epos-sync/core/lock"
	"epos-sync/core/reconcile"
	"epos-sync/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp(svc *Service, defaults reconcile.ReconcileOptions) *fiber.App {
	app := fiber.New()
	feature := NewFeature(svc, defaults)
	_ = feature.Load(app)
	return app
}

func decodeReport(t *testing.T, body io.Reader) RunReport {
	var r RunReport
	require.NoError(t, json.NewDecoder(body).Decode(&r))
	return r
}

func TestHandler_TriggerAndLast(t *testing.T) {
	svc, src, _ := newTestService(t, nil, nil)
	seedSource(t, src, "100", nil)
	app := newTestApp(svc, reconcile.ReconcileOptions{DryRun: true})

	// Nothing has run yet
	resp, err := app.Test(httptest.NewRequest("GET", "/sync/last", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Configured default: dry run
	resp, err = app.Test(httptest.NewRequest("POST", "/sync", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	report := decodeReport(t, resp.Body)
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Plan.Creates)
	assert.Equal(t, 0, report.Result.Inserted)

	// Query overrides the default
	resp, err = app.Test(httptest.NewRequest("POST", "/sync?dry_run=false", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	report = decodeReport(t, resp.Body)
	assert.False(t, report.DryRun)
	assert.Equal(t, 1, report.Result.Inserted)

	resp, err = app.Test(httptest.NewRequest("GET", "/sync/last", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	last := decodeReport(t, resp.Body)
	assert.Equal(t, report.RunID, last.RunID)
}

func TestHandler_TriggerConflict(t *testing.T) {
	svc, _, _ := newTestService(t, &countingLocker{err: lock.ErrNotObtained}, nil)
	app := newTestApp(svc, reconcile.ReconcileOptions{})

	resp, err := app.Test(httptest.NewRequest("POST", "/sync", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestHandler_TriggerFailure(t *testing.T) {
	svc, _, dst := newTestService(t, nil, nil)
	require.NoError(t, dst.Exec("DROP TABLE Product_Manufacturer_Mapping").Error)
	app := newTestApp(svc, reconcile.ReconcileOptions{})

	resp, err := app.Test(httptest.NewRequest("POST", "/sync", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "Product_Manufacturer_Mapping")
	assert.NotNil(t, body["report"])
}

func TestHandler_GetReport(t *testing.T) {
	t.Run("Archive disabled", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil, nil)
		app := newTestApp(svc, reconcile.ReconcileOptions{})

		resp, err := app.Test(httptest.NewRequest("GET", "/sync/reports/2024/01/02/abc", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("Archived report", func(t *testing.T) {
		client := new(mocks.Client)
		body, _ := json.Marshal(RunReport{RunID: "abc", Status: StatusSucceeded})
		client.On("GetObject", mock.Anything, "epos-sync", "reports/sync/2024/01/02/abc.json", mock.Anything).
			Return(io.NopCloser(bytes.NewReader(body)), nil)
		client.On("GetObject", mock.Anything, "epos-sync", mock.Anything, mock.Anything).
			Return(nil, errors.New("NoSuchKey"))

		svc, _, _ := newTestService(t, nil, NewArchive(client, "epos-sync"))
		app := newTestApp(svc, reconcile.ReconcileOptions{})

		resp, err := app.Test(httptest.NewRequest("GET", "/sync/reports/2024/01/02/abc", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "abc", decodeReport(t, resp.Body).RunID)

		resp, err = app.Test(httptest.NewRequest("GET", "/sync/reports/2024/01/03/abc", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestFeature(t *testing.T) {
	svc, _, _ := newTestService(t, nil, nil)
	f := NewFeature(svc, reconcile.ReconcileOptions{})

	assert.Equal(t, "productsync", f.Name())
	assert.True(t, f.IsEnabled())
	assert.False(t, (&Feature{}).IsEnabled())
}
