package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	token      string
	profileID  string
	client     = &http.Client{Timeout: 30 * time.Second}
	testDate   string
	createdIDs = make(map[string]string) // created resources, deleted at the end
)

func main() {
	fmt.Println("=== Food Analyser E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	token = getEnv("SMOKE_TOKEN", "")
	profileID = getEnv("SMOKE_PROFILE_ID", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Printf("Profile ID: %s\n", maskString(profileID))
	fmt.Println()

	testDate = time.Now().UTC().Format("2006-01-02")

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Get Profile ID", testGetProfileID},
		{"Plan Options", testPlanOptions},
		{"Preview Plan", testPreviewPlan},
		{"Create Plan", testCreatePlan},
		{"Apply Plan Week 1", testApplyPlan},
		{"Log Meal", testLogMeal},
		{"Daily Summary", testDailySummary},
		{"Create Report (CSV)", testCreateReport},
		{"List Reports", testListReports},
		{"Download Report", testDownloadReport},
		{"Delete Report", testDeleteReport},
		{"Delete Meal", testDeleteMeal},
		{"Delete Plan", testDeletePlan},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	return call(http.MethodGet, "/healthz", nil, http.StatusOK, nil)
}

func testGetProfileID() error {
	if profileID != "" {
		return nil
	}

	var result struct {
		Profiles []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"profiles"`
	}
	if err := call(http.MethodGet, "/v1/profiles", nil, http.StatusOK, &result); err != nil {
		return err
	}
	if len(result.Profiles) == 0 {
		return fmt.Errorf("no profiles found")
	}

	for _, p := range result.Profiles {
		if p.Type == "owner" {
			profileID = p.ID
			return nil
		}
	}
	profileID = result.Profiles[0].ID
	return nil
}

func testPlanOptions() error {
	var result struct {
		ActivityLevels []json.RawMessage `json:"activity_levels"`
		TotalWeeks     int               `json:"total_weeks"`
	}
	if err := call(http.MethodGet, "/v1/plans/options", nil, http.StatusOK, &result); err != nil {
		return err
	}
	if len(result.ActivityLevels) != 5 || result.TotalWeeks != 16 {
		return fmt.Errorf("unexpected options: levels=%d weeks=%d", len(result.ActivityLevels), result.TotalWeeks)
	}
	return nil
}

func planInput() map[string]interface{} {
	return map[string]interface{}{
		"weight_unit":            "metric",
		"weight":                 80,
		"height":                 175,
		"current_bodyfat":        20,
		"goal_bodyfat":           15,
		"age":                    30,
		"gender":                 "male",
		"activity_multiplier":    1.55,
		"calorie_adjustment_pct": 20,
		"protein_multiplier":     2.0,
		"bmr_formula":            "katch-mcardle",
	}
}

func testPreviewPlan() error {
	var result struct {
		PlanType       string            `json:"plan_type"`
		WeeklyCalories []json.RawMessage `json:"weekly_calorie_plan"`
	}
	if err := call(http.MethodPost, "/v1/plans/preview", planInput(), http.StatusOK, &result); err != nil {
		return err
	}
	if result.PlanType != "Deficit" || len(result.WeeklyCalories) != 16 {
		return fmt.Errorf("unexpected preview: type=%s weeks=%d", result.PlanType, len(result.WeeklyCalories))
	}
	return nil
}

func testCreatePlan() error {
	payload := map[string]interface{}{
		"profile_id": profileID,
		"name":       "Smoke cut",
		"input":      planInput(),
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := call(http.MethodPost, "/v1/plans", payload, http.StatusCreated, &result); err != nil {
		return err
	}

	createdIDs["plan"] = result.ID
	return nil
}

func testApplyPlan() error {
	planID := createdIDs["plan"]
	if planID == "" {
		return fmt.Errorf("no plan ID to apply")
	}

	var result struct {
		CaloriesKcal int `json:"calories_kcal"`
	}
	if err := call(http.MethodPost, "/v1/plans/"+planID+"/apply", map[string]int{"week": 1}, http.StatusOK, &result); err != nil {
		return err
	}
	if result.CaloriesKcal <= 0 {
		return fmt.Errorf("applied targets have no calories")
	}
	return nil
}

func testLogMeal() error {
	payload := map[string]interface{}{
		"profile_id": profileID,
		"meal_name":  "lunch",
		"date":       testDate,
		"items": []map[string]interface{}{
			{"name": "rice", "quantity": 150, "unit": "g"},
			{"name": "egg", "quantity": 2, "unit": "oz"},
		},
	}

	var result struct {
		Meal struct {
			ID string `json:"id"`
		} `json:"meal"`
	}
	if err := call(http.MethodPost, "/v1/meals", payload, http.StatusCreated, &result); err != nil {
		return err
	}

	createdIDs["meal"] = result.Meal.ID
	return nil
}

func testDailySummary() error {
	var result struct {
		MealsCount int `json:"meals_count"`
	}
	path := fmt.Sprintf("/v1/meals/summary?profile_id=%s&date=%s", profileID, testDate)
	if err := call(http.MethodGet, path, nil, http.StatusOK, &result); err != nil {
		return err
	}
	if result.MealsCount == 0 {
		return fmt.Errorf("summary has no meals")
	}
	return nil
}

func testCreateReport() error {
	payload := map[string]interface{}{
		"plan_id": createdIDs["plan"],
		"format":  "csv",
	}

	var result struct {
		ID        string `json:"id"`
		SizeBytes int64  `json:"size_bytes"`
	}
	if err := call(http.MethodPost, "/v1/reports", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	if result.SizeBytes < 10 {
		return fmt.Errorf("report size is %d bytes (too small)", result.SizeBytes)
	}

	createdIDs["report"] = result.ID
	return nil
}

func testListReports() error {
	var result struct {
		Reports []struct {
			ID string `json:"id"`
		} `json:"reports"`
	}
	if err := call(http.MethodGet, "/v1/reports?profile_id="+profileID, nil, http.StatusOK, &result); err != nil {
		return err
	}
	if len(result.Reports) == 0 {
		return fmt.Errorf("no reports found")
	}
	return nil
}

func testDownloadReport() error {
	reportID := createdIDs["report"]
	if reportID == "" {
		return fmt.Errorf("no report ID to download")
	}

	req, err := http.NewRequest(http.MethodGet, apiBase+"/v1/reports/"+reportID+"/download", nil)
	if err != nil {
		return err
	}
	addAuth(req)

	// redirect is checked by hand
	originalCheckRedirect := client.CheckRedirect
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	defer func() { client.CheckRedirect = originalCheckRedirect }()

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return checkReportBody(resp.Body)

	case http.StatusFound:
		location := resp.Header.Get("Location")
		if location == "" {
			return fmt.Errorf("redirect without Location header")
		}

		getResp, err := http.Get(location)
		if err != nil {
			return fmt.Errorf("failed to follow redirect: %w", err)
		}
		defer getResp.Body.Close()

		if getResp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(getResp.Body, 4096))
			return fmt.Errorf("redirect failed: status=%d body=%s", getResp.StatusCode, string(body))
		}
		return checkReportBody(getResp.Body)
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("unexpected status=%d body=%s", resp.StatusCode, string(body))
}

func checkReportBody(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if !bytes.HasPrefix(data, []byte("week,")) {
		return fmt.Errorf("report is not the weekly csv: %q", string(data[:min(len(data), 40)]))
	}
	return nil
}

func testDeleteReport() error {
	return deleteCreated("report", "/v1/reports/")
}

func testDeleteMeal() error {
	return deleteCreated("meal", "/v1/meals/")
}

func testDeletePlan() error {
	return deleteCreated("plan", "/v1/plans/")
}

// Helper functions

func deleteCreated(kind, prefix string) error {
	id := createdIDs[kind]
	if id == "" {
		return fmt.Errorf("no %s ID to delete", kind)
	}
	return call(http.MethodDelete, prefix+id, nil, http.StatusNoContent, nil)
}

// call sends a JSON request and decodes the response into out when out is not nil.
func call(method, path string, payload interface{}, wantStatus int, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}
	}
	return nil
}

func addAuth(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
