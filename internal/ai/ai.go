package ai

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// AdvisorService is the skincare product advisor: a Gemini model that can
// look up the live catalog and reviews through a read-only SQL tool. It
// runs against a dedicated read-only connection so a bad generation can
// never touch cart, order or stock state.
type AdvisorService struct {
	client *genai.Client
	db     *sql.DB
	logger *slog.Logger
}

func NewAdvisorService(apiKey string, dbReadOnly *sql.DB, logger *slog.Logger) (*AdvisorService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &AdvisorService{client: client, db: dbReadOnly, logger: logger}, nil
}

func (s *AdvisorService) Close() error {
	return s.client.Close()
}

// GenerateResponse answers a shopper's question, letting the model query
// the catalog through the run_readonly_sql tool when it needs facts.
func (s *AdvisorService) GenerateResponse(ctx context.Context, userMessage string) (string, error) {
	model := s.client.GenerativeModel("gemini-1.5-flash")

	sqlTool := &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "run_readonly_sql",
				Description: "Executes a READ-ONLY SQL query (SELECT only) against the store catalog.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"query": {
							Type:        genai.TypeString,
							Description: "The MySQL SELECT query to execute.",
						},
					},
					Required: []string{"query"},
				},
			},
		},
	}
	model.Tools = []*genai.Tool{sqlTool}

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(fmt.Sprintf(`
			You are the GlowMart skincare advisor. You help shoppers pick
			products for their skin type and routine.
			Access: MySQL catalog (run_readonly_sql).
			Schema: %s
			Rules: SELECT only. Recommend only in-stock products. Be concise.
		`, s.schemaDefinition()))},
	}

	cs := model.StartChat()
	res, err := cs.SendMessage(ctx, genai.Text(userMessage))
	if err != nil {
		return "", fmt.Errorf("error sending message: %w", err)
	}

	// Tool-call loop: keep answering function calls until the model
	// produces text.
	for {
		if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
			return "No response.", nil
		}
		part := res.Candidates[0].Content.Parts[0]

		funcCall, ok := part.(genai.FunctionCall)
		if !ok {
			return fmt.Sprintf("%v", part), nil
		}

		if funcCall.Name != "run_readonly_sql" {
			return "", fmt.Errorf("unknown function: %s", funcCall.Name)
		}

		query, ok := funcCall.Args["query"].(string)
		if !ok {
			return "", fmt.Errorf("invalid query argument")
		}
		s.logger.Info("advisor running SQL", "query", query)

		sqlResult, sqlErr := s.runReadOnlyQuery(query)
		if sqlErr != nil {
			sqlResult = fmt.Sprintf("SQL Error: %v", sqlErr)
		}

		res, err = cs.SendMessage(ctx, genai.FunctionResponse{
			Name:     "run_readonly_sql",
			Response: map[string]interface{}{"result": sqlResult},
		})
		if err != nil {
			return "", fmt.Errorf("tool response error: %w", err)
		}
	}
}

func (s *AdvisorService) runReadOnlyQuery(query string) (string, error) {
	normalized := strings.ToUpper(query)
	for _, verb := range []string{"UPDATE", "DELETE", "DROP", "INSERT", "ALTER"} {
		if strings.Contains(normalized, verb) {
			return "", fmt.Errorf("security violation: modify operations are not allowed")
		}
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", err
	}
	count := len(columns)

	tableData := []map[string]interface{}{}
	for rows.Next() {
		values := make([]interface{}, count)
		valuePtrs := make([]interface{}, count)
		for i := range columns {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return "", err
		}
		entry := make(map[string]interface{})
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				entry[col] = string(b)
			} else {
				entry[col] = values[i]
			}
		}
		tableData = append(tableData, entry)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	jsonData, err := json.Marshal(tableData)
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (s *AdvisorService) schemaDefinition() string {
	return `
	- products (id, name, slug, description, price, stock_quantity, category [cleanser, serum, toner, moisturizer, mask, sunscreen], skin_types [JSON array of: normal, dry, oily, combination, sensitive], featured, image_url)
	- reviews (id, product_id, user_id, rating [1-5], comment, created_at)
	`
}
