package handlers

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"app/config"
	"app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var (
	restockPattern     = regexp.MustCompile(`(?i)restock\s+(\w+(?:\s+\w+)*)`)
	updateStockPattern = regexp.MustCompile(`(?i)update\s+stock\s+(\w+(?:\s+\w+)*?)\s+(?:to\s+)?(\d+)`)
	addProductPattern  = regexp.MustCompile(`(?i)add\s+product\s+(\w+(?:\s+\w+)*)`)
	delProductPattern  = regexp.MustCompile(`(?i)delete\s+product\s+(\w+(?:\s+\w+)*)`)
)

// buildChatContext turns the optional prediction data into the assistant's
// system instruction.
func buildChatContext(data *models.PredictionDataForChat) string {
	if data == nil {
		return "You are the store assistant chatbot. Help users understand predictions and manage stock. When no prediction data is available, guide them to start a prediction first."
	}

	restockLines := "- None"
	if len(data.Recommendations) > 0 {
		var lines []string
		for _, r := range data.Recommendations {
			lines = append(lines, fmt.Sprintf("- %s (ID: %s): Current %d, Predicted %d, Restock +%d (%s priority)",
				r.ProductName, r.ProductID, r.CurrentStock, r.PredictedDemand, r.RecommendedRestock, r.Urgency))
		}
		restockLines = strings.Join(lines, "\n")
	}

	eventLines := "- None"
	if len(data.EventAnnotations) > 0 {
		var lines []string
		for _, e := range data.EventAnnotations {
			lines = append(lines, fmt.Sprintf("- %s: %s (%s)", e.Date, strings.Join(e.Titles, ", "), strings.Join(e.Types, ", ")))
		}
		eventLines = strings.Join(lines, "\n")
	}

	accuracy := "N/A"
	forecastDays := 0
	if data.Meta != nil {
		if v, ok := data.Meta["accuracy"]; ok {
			accuracy = fmt.Sprintf("%v", v)
		}
		if v, ok := data.Meta["forecastDays"].(float64); ok {
			forecastDays = int(v)
		}
	}

	return fmt.Sprintf(`You are the store assistant chatbot for stock prediction and inventory management.

PREDICTION DATA:
- Forecast Accuracy: %s%%
- Forecast Period: %d days

RESTOCK RECOMMENDATIONS:
%s

UPCOMING EVENTS:
%s

YOUR TASKS:
1. Answer questions about predictions (why demand increases, when trends occur, etc.)
2. Explain restock recommendations based on the forecast (trends, seasonality, holidays)
3. Help with stock management questions
4. When users request actions (restock, update stock, add/delete products), acknowledge and prepare the command

IMPORTANT:
- Be concise, accurate, and helpful
- Reference specific events and their impact on demand
- When detecting action commands, clearly state what will be done`, accuracy, forecastDays, restockLines, eventLines)
}

// parseAction scans the user's message for stock action commands. Actions
// that mutate data always need confirmation by the UI before execution.
func parseAction(message string, data *models.PredictionDataForChat) models.ActionPayload {
	if m := restockPattern.FindStringSubmatch(message); m != nil && data != nil {
		name := strings.ToLower(m[1])
		for _, rec := range data.Recommendations {
			if rec.ProductName != "" && strings.Contains(strings.ToLower(rec.ProductName), name) {
				productID := rec.ProductID
				productName := rec.ProductName
				quantity := rec.RecommendedRestock
				return models.ActionPayload{
					Type:              "restock",
					ProductID:         &productID,
					ProductName:       &productName,
					Quantity:          &quantity,
					NeedsConfirmation: true,
				}
			}
		}
	}

	if m := updateStockPattern.FindStringSubmatch(message); m != nil {
		name := m[1]
		quantity, _ := strconv.Atoi(m[2])
		return models.ActionPayload{
			Type:              "update_stock",
			ProductName:       &name,
			Quantity:          &quantity,
			NeedsConfirmation: true,
		}
	}

	if m := addProductPattern.FindStringSubmatch(message); m != nil {
		name := m[1]
		return models.ActionPayload{Type: "add_product", ProductName: &name, NeedsConfirmation: true}
	}

	if m := delProductPattern.FindStringSubmatch(message); m != nil {
		name := m[1]
		return models.ActionPayload{Type: "delete_product", ProductName: &name, NeedsConfirmation: true}
	}

	return models.ActionPayload{Type: "none"}
}

// callGemini sends the prompt to Gemini with the given system instruction
// and returns the response text. Failures degrade to an explanatory message
// rather than an error so the chat UI stays usable.
func callGemini(ctx context.Context, prompt, systemInstruction string) string {
	if config.AppConfig.GeminiAPIKey == "" {
		return "AI chat is currently unavailable. Please configure GEMINI_API_KEY."
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Printf("Error creating Gemini client: %v", err)
		return "AI chat is temporarily unavailable."
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.5-flash")
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(1024)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("Gemini API error: %v", err)
		return "AI chat error: the assistant could not process this request. Please try again later."
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "I apologize, but I could not generate a response."
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "I apologize, but I could not generate a response."
	}
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// HandleChat answers an assistant message, optionally grounded in the last
// prediction run, and reports any stock action detected in the message.
// POST /api/v1/chat
func HandleChat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Message is required"})
	}

	systemContext := buildChatContext(req.PredictionData)

	// Only the last few turns make it into the prompt.
	history := req.ChatHistory
	if len(history) > 5 {
		history = history[len(history)-5:]
	}
	var sb strings.Builder
	for _, msg := range history {
		sb.WriteString(capitalize(msg.Role))
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	prompt := fmt.Sprintf("%s\nUser: %s\n\nAssistant: Please provide a clear and helpful response.", sb.String(), req.Message)

	response := callGemini(context.Background(), prompt, systemContext)
	action := parseAction(req.Message, req.PredictionData)

	return c.JSON(models.ChatResponse{Response: response, Action: action})
}
