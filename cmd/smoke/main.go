package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// client carries the session cookie between calls, like a browser would.
var client *http.Client

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	jar, _ := cookiejar.New(nil)
	client = &http.Client{Jar: jar, Timeout: 2 * time.Minute}

	color.Cyan("🚀 Starting MarketMind API Smoke Test\n")

	// 1. Status before onboarding: must be unauthenticated
	color.Yellow("\n[AUTH] 1. Status Without Session")
	resp, body, err := sendRequest("GET", "/auth/status", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var statusResp map[string]interface{}
	json.Unmarshal(body, &statusResp)
	prettyPrint(statusResp)

	// 2. Onboard: mint a user id and session cookie
	color.Yellow("\n[AUTH] 2. Generate User ID")
	resp, body, err = sendRequest("GET", "/auth/generate-user-id", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var generateResp map[string]interface{}
	json.Unmarshal(body, &generateResp)
	prettyPrint(generateResp)

	userId, _ := generateResp["userId"].(string)
	if userId == "" {
		color.Red("No userId returned, aborting")
		os.Exit(1)
	}

	// 3. Status with the cookie the jar picked up
	color.Yellow("\n[AUTH] 3. Status With Session")
	resp, body, err = sendRequest("GET", "/auth/status", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	json.Unmarshal(body, &statusResp)
	prettyPrint(statusResp)

	// 4. Initial recommendations (onboarding flow)
	color.Yellow("\n[CHAT] 4. Generate Initial Recommendations")
	onboardingReq := map[string]interface{}{
		"businessName": "Acme Soap",
		"industry":     "retail",
		"goal":         "increase online sales",
		"challenges":   "low brand awareness",
	}
	resp, body, err = sendRequest("POST", "/chat/generateInitialRecommendations", onboardingReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var recResp map[string]interface{}
	json.Unmarshal(body, &recResp)
	// Concise printing, the full history dump gets long fast
	if reply, ok := recResp["response"].(string); ok {
		fmt.Printf("Reply: %s\n", reply)
	} else {
		prettyPrint(recResp)
	}

	// 5. Follow-up question
	color.Yellow("\n[CHAT] 5. Send Follow-Up Question")
	resp, body, err = sendRequest("POST", "/chat/ai-request", map[string]interface{}{
		"query": "Which of those three should I start with on a small budget?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var chatResp map[string]interface{}
	json.Unmarshal(body, &chatResp)
	if reply, ok := chatResp["response"].(string); ok {
		fmt.Printf("Reply: %s\n", reply)
	}
	if history, ok := chatResp["history"].([]interface{}); ok {
		fmt.Printf("History length: %d\n", len(history))
	}

	// 6. Full history readback
	color.Yellow("\n[CHAT] 6. Get Chat History")
	resp, body, err = sendRequest("GET", "/chat/history", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var historyResp map[string]interface{}
	json.Unmarshal(body, &historyResp)
	if messages, ok := historyResp["messages"].([]interface{}); ok {
		fmt.Printf("Messages: %d\n", len(messages))
	} else {
		prettyPrint(historyResp)
	}

	// 7. Refresh the session token
	color.Yellow("\n[AUTH] 7. Refresh Token")
	resp, body, err = sendRequest("GET", "/auth/refresh-token", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var refreshResp map[string]interface{}
	json.Unmarshal(body, &refreshResp)
	prettyPrint(refreshResp)

	if refreshed, _ := refreshResp["userId"].(string); refreshed != userId {
		color.Red("Refresh changed the subject: %s -> %s", userId, refreshed)
		os.Exit(1)
	}

	color.Cyan("\n✅ Smoke Test Complete")
}
