package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

// End-to-end smoke test against a running server: seeds a demo knowledge
// base, uploads a document, and exercises scoped and global chat.

const sampleDocument = `ACME Corporation - Master Service Agreement (Final)

1. Warranty. ACME warrants that all deliverables will conform to the
agreed specifications for a period of ninety (90) days after acceptance.

2. Liability. Neither party is liable for indirect or consequential
damages. Total liability is capped at the fees paid in the preceding
twelve months.

3. Termination. Either party may terminate with thirty (30) days
written notice.`

func baseURL() string {
	if v := os.Getenv("SEED_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8000/api"
}

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

	req, err := http.NewRequest(method, baseURL()+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func decode(body []byte) map[string]interface{} {
	var out map[string]interface{}
	json.Unmarshal(body, &out)
	return out
}

func main() {
	color.Cyan("🚀 Seeding demo knowledge base\n")

	// 1. Create collection explicitly
	color.Yellow("\n[KB] 1. Create 'Client ACME' collection")
	resp, body, err := sendRequest("POST", "/kb/v1", map[string]interface{}{
		"name":        "Client ACME",
		"description": "Contracts and agreements for the ACME account",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 2. Upload a sample contract
	color.Yellow("\n[KB] 2. Upload sample contract")
	resp, body, err = sendRequest("POST", "/kb/v1/client_acme/documents", map[string]interface{}{
		"file_name":    "acme_msa.txt",
		"content":      base64.StdEncoding.EncodeToString([]byte(sampleDocument)),
		"content_type": "text/plain",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 3. List collections
	color.Yellow("\n[KB] 3. List collections")
	resp, body, err = sendRequest("GET", "/kb/v1", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 4. Scoped chat
	color.Yellow("\n[CHAT] 4. Ask about the warranty (scoped)")
	resp, body, err = sendRequest("POST", "/kb/v1/client_acme/chat", map[string]interface{}{
		"query":      "How long is the warranty period?",
		"session_id": "seed-session",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 5. Global chat (router should land on client_acme)
	color.Yellow("\n[CHAT] 5. Ask globally, expect routing to client_acme")
	resp, body, err = sendRequest("POST", "/chat/v1/global", map[string]interface{}{
		"query":      "What does the ACME contract say about liability?",
		"session_id": "seed-session",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 6. Tool surface
	color.Yellow("\n[TOOLS] 6. List available tools")
	resp, body, err = sendRequest("GET", "/tools/v1", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	color.Cyan("\n✅ Seed flow completed")
}
