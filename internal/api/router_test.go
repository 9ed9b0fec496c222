package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopsight/prospects/internal/services"
	"github.com/hoopsight/prospects/pkg/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	var college, draft, pro strings.Builder
	college.WriteString("player_name,year,bpm,stops,Rec Rank,GP,ftr,usg,TS_per,pts,Min_per,obpm,dbpm,AST_per,ORB_per,blk_per\n")
	draft.WriteString("PLAYER,YEAR\n")
	pro.WriteString("player,season,team_id,g,pts_per_g,fg_per_g,fga_per_g,ft_per_g,fta_per_g,ast_per_g,stl_per_g,blk_per_g,tov_per_g,pf_per_g,orb_per_g,drb_per_g,ws,bpm\n")

	state := uint64(17)
	next := func() float64 {
		state = state*6364136223846793005 + 1442695040888963407
		return float64(state>>33%300)/10.0 + 1
	}
	for i := 0; i < 14; i++ {
		name := fmt.Sprintf("Prospect %02d", i)
		fmt.Fprintf(&college, "%s,2015", name)
		for c := 0; c < 14; c++ {
			fmt.Fprintf(&college, ",%.1f", next())
		}
		college.WriteString("\n")
		fmt.Fprintf(&draft, "%s,2015\n", name)
		fmt.Fprintf(&pro, "%s,2016,TM1,70", name)
		for c := 0; c < 12; c++ {
			fmt.Fprintf(&pro, ",%.1f", next()/4)
		}
		fmt.Fprintf(&pro, ",%.1f,%.1f\n", next(), next()-8)
	}

	allstar := "player,season,lg\nProspect 00,2016,NBA\n"
	attrs := "PLAYER,pos\nProspect 00,PG\n"

	for name, content := range map[string]string{
		"college.csv": college.String(),
		"draft.csv":   draft.String(),
		"pro.csv":     pro.String(),
		"allstar.csv": allstar,
		"attrs.csv":   attrs,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return &config.Config{
		AllStarFile:        filepath.Join(dir, "allstar.csv"),
		CollegeFile:        filepath.Join(dir, "college.csv"),
		ProStatsFile:       filepath.Join(dir, "pro.csv"),
		DraftFile:          filepath.Join(dir, "draft.csv"),
		AttributesFile:     filepath.Join(dir, "attrs.csv"),
		StartYear:          2010,
		EndYear:            2019,
		CareerHorizonYears: 5,
		PredictRateLimit:   1000,
		PredictRateBurst:   1000,
	}
}

func newTestServer(t *testing.T, cfg *config.Config, build bool) (*gin.Engine, *services.DatasetService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	dataset := services.NewDatasetService(nil, nil, logger, cfg)
	if build {
		_, err := dataset.Build()
		require.NoError(t, err)
	}
	refresher := services.NewRefresherService(dataset, logger, time.Hour)

	router := gin.New()
	SetupRoutes(router.Group("/api/v1"), cfg, dataset, refresher)
	return router, dataset
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHealthAndReadiness(t *testing.T) {
	cfg := testConfig(t)
	router, dataset := newTestServer(t, cfg, false)

	w := doRequest(router, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code, "not ready before the first build")

	_, err := dataset.Build()
	require.NoError(t, err)

	w = doRequest(router, http.MethodGet, "/api/v1/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetPlayersFiltering(t *testing.T) {
	router, _ := newTestServer(t, testConfig(t), true)

	w := doRequest(router, http.MethodGet, "/api/v1/players", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	require.True(t, env.Success)

	var all []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, 14)

	w = doRequest(router, http.MethodGet, "/api/v1/players?position=Guard", "")
	env = decode(t, w)
	var guards []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &guards))
	require.Len(t, guards, 1)
	assert.Equal(t, "Prospect 00", guards[0]["PLAYER"])

	w = doRequest(router, http.MethodGet, "/api/v1/players?search=prospect+03", "")
	env = decode(t, w)
	var found []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Prospect 03", found[0]["PLAYER"])
}

func TestGetPlayersSorting(t *testing.T) {
	router, _ := newTestServer(t, testConfig(t), true)

	w := doRequest(router, http.MethodGet, "/api/v1/players?sortBy=Highest_WS&sortOrder=desc", "")
	env := decode(t, w)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Greater(t, len(rows), 2)
	for i := 1; i < len(rows); i++ {
		prev := rows[i-1]["Highest_WS"].(float64)
		cur := rows[i]["Highest_WS"].(float64)
		assert.GreaterOrEqual(t, prev, cur)
	}
}

func TestGetPlayerByName(t *testing.T) {
	router, _ := newTestServer(t, testConfig(t), true)

	w := doRequest(router, http.MethodGet, "/api/v1/players/Prospect%2007", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	var row map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &row))
	assert.Equal(t, "Prospect 07", row["PLAYER"])

	w = doRequest(router, http.MethodGet, "/api/v1/players/Nobody", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestPredictEndpoint(t *testing.T) {
	router, _ := newTestServer(t, testConfig(t), true)

	w := doRequest(router, http.MethodPost, "/api/v1/predict",
		`{"model":"linear","player":"Prospect 03"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decode(t, w)
	var resp struct {
		Model     string    `json:"model"`
		Predicted float64   `json:"predicted_win_shares"`
		Features  []float64 `json:"features"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "linear", resp.Model)
	assert.Len(t, resp.Features, 10)

	// manual entry: named features used, the rest defaulted to the mean
	w = doRequest(router, http.MethodPost, "/api/v1/predict",
		`{"model":"tree","features":{"bpm":8.5,"GP":35}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env = decode(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, 8.5, resp.Features[1])
	assert.Equal(t, 35.0, resp.Features[3])

	w = doRequest(router, http.MethodPost, "/api/v1/predict",
		`{"model":"forest","player":"Prospect 03"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "model name is validated at binding")

	w = doRequest(router, http.MethodPost, "/api/v1/predict",
		`{"model":"linear","player":"Nobody"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPredictBeforeTraining(t *testing.T) {
	router, _ := newTestServer(t, testConfig(t), false)

	w := doRequest(router, http.MethodPost, "/api/v1/predict",
		`{"model":"linear","player":"Prospect 03"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestModelsEndpoint(t *testing.T) {
	router, _ := newTestServer(t, testConfig(t), true)

	w := doRequest(router, http.MethodGet, "/api/v1/models", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	var summaries []struct {
		Model string  `json:"model"`
		RMSE  float64 `json:"rmse"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "linear", summaries[0].Model)
	assert.Equal(t, "tree", summaries[1].Model)
}

func TestDatasetSummaryEndpoint(t *testing.T) {
	cfg := testConfig(t)
	router, _ := newTestServer(t, cfg, false)

	w := doRequest(router, http.MethodGet, "/api/v1/dataset/summary", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	router, _ = newTestServer(t, cfg, true)
	w = doRequest(router, http.MethodGet, "/api/v1/dataset/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	var summary struct {
		BuildID string `json:"build_id"`
		Players int    `json:"players"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.NotEmpty(t, summary.BuildID)
	assert.Equal(t, 14, summary.Players)
}

func TestExportEndpoint(t *testing.T) {
	router, _ := newTestServer(t, testConfig(t), true)

	w := doRequest(router, http.MethodGet, "/api/v1/dataset/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "PLAYER")
}

func TestRefreshStatusEndpoint(t *testing.T) {
	router, _ := newTestServer(t, testConfig(t), false)

	w := doRequest(router, http.MethodGet, "/api/v1/dataset/refresh-status", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	var status struct {
		Running  bool   `json:"running"`
		Interval string `json:"interval"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.False(t, status.Running)
	assert.Equal(t, "1h0m0s", status.Interval)
}

func TestPredictRateLimiting(t *testing.T) {
	cfg := testConfig(t)
	cfg.PredictRateLimit = 0.001
	cfg.PredictRateBurst = 1
	router, _ := newTestServer(t, cfg, true)

	body := `{"model":"linear","player":"Prospect 03"}`
	w := doRequest(router, http.MethodPost, "/api/v1/predict", body)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/predict", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, decode(t, w).Success)
}
