package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/domain/auth"
)

// bearerTransport adds the Authorization header to every request
type bearerTransport struct {
	token string
	next  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+t.token)
	return t.next.RoundTrip(r)
}

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/mcp/stream", "MCP endpoint")
	role := flag.String("role", string(domain.RoleRecruiter), "role of the dev identity (recruiter or employee)")
	flag.Parse()

	ctx := context.Background()

	httpClient := http.DefaultClient
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		token, err := auth.IssueToken(secret, domain.Identity{ID: "dev-" + *role, Role: domain.Role(*role)}, time.Hour)
		if err != nil {
			log.Fatalf("Failed to issue dev token: %v", err)
		}
		httpClient = &http.Client{Transport: &bearerTransport{token: token, next: http.DefaultTransport}}
	} else {
		log.Println("JWT_SECRET not set, connecting anonymously")
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "ai-job-seeker-test-client",
		Version: "0.1.0",
	}, &mcp.ClientOptions{
		ElicitationHandler: fillJobForm,
	})

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint:   *endpoint,
		HTTPClient: httpClient,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	testListTools(ctx, session)
	testSearch(ctx, session)
	testCreateJob(ctx, session)
	testJobForm(ctx, session)

	fmt.Println("\nAll tests completed")
}

// fillJobForm stands in for the human: it accepts the form with a title
func fillJobForm(_ context.Context, req *mcp.ElicitRequest) (*mcp.ElicitResult, error) {
	fmt.Printf("\n  form requested: %s\n", req.Params.Message)
	return &mcp.ElicitResult{
		Action: "accept",
		Content: map[string]any{
			"title":    "Platform Engineer",
			"company":  "Acme Corp",
			"location": "Remote",
		},
	}, nil
}

func testListTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: list tools")

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Printf("list tools failed: %v", err)
		return
	}
	for _, tool := range res.Tools {
		fmt.Printf("  %s: %s\n", tool.Name, tool.Description)
	}
}

func testSearch(ctx context.Context, session *mcp.ClientSession) {
	calls := []*mcp.CallToolParams{
		{Name: "searchJobs", Arguments: map[string]any{"q": "engineer", "limit": 5}},
		{Name: "searchCompanies", Arguments: map[string]any{"industry": "software"}},
		{Name: "searchCompanyJobs", Arguments: map[string]any{"companyIdOrName": "Acme"}},
	}

	for _, params := range calls {
		fmt.Printf("\nTEST: %s\n", params.Name)
		result, err := session.CallTool(ctx, params)
		if err != nil {
			log.Printf("%s failed: %v", params.Name, err)
			continue
		}
		printResult(result)
	}
}

func testCreateJob(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: createJob")

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "createJob",
		Arguments: map[string]any{
			"title":    "Go Engineer",
			"company":  "Acme Corp",
			"location": "Berlin",
			"salary":   "90k",
		},
	})
	if err != nil {
		log.Printf("createJob failed: %v", err)
		return
	}
	printResult(result)
}

func testJobForm(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: jobCreationForm")

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "jobCreationForm",
		Arguments: map[string]any{"title": "Draft"},
	})
	if err != nil {
		log.Printf("jobCreationForm failed: %v", err)
		return
	}
	printResult(result)
}

func printResult(res *mcp.CallToolResult) {
	if res.IsError {
		fmt.Println("  (tool error)")
	}
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
		}
	}
}
