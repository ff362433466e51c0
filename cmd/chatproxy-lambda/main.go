// The chat proxy packaged as an API Gateway Lambda, for deployments that keep
// the stateless endpoint serverless while the client owns conversation state.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/serenelabs/serenity/internal/config"
	"github.com/serenelabs/serenity/internal/model/chat"
	"github.com/serenelabs/serenity/internal/service/ai"
	"github.com/serenelabs/serenity/internal/service/exchange"
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
	"Content-Type":                 "application/json",
}

var (
	gateway ai.Gateway
	timeout time.Duration
)

type proxyRequest struct {
	Message             string                   `json:"message"`
	ConversationHistory []chat.ConversationEntry `json:"conversationHistory"`
}

func handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Headers: corsHeaders}, nil
	}

	var payload proxyRequest
	if err := json.Unmarshal([]byte(request.Body), &payload); err != nil {
		return respond(http.StatusBadRequest, map[string]string{"error": "invalid request body"}), nil
	}
	if strings.TrimSpace(payload.Message) == "" {
		return respond(http.StatusBadRequest, map[string]string{"error": "message is required"}), nil
	}

	history := payload.ConversationHistory
	if len(history) > exchange.WindowLimit {
		history = history[len(history)-exchange.WindowLimit:]
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reply, err := gateway.Complete(callCtx, history, payload.Message)
	switch {
	case errors.Is(err, ai.ErrRateLimited):
		return respond(http.StatusTooManyRequests, map[string]string{"error": ai.RateLimitedMessage}), nil
	case errors.Is(err, ai.ErrQuotaExceeded):
		return respond(http.StatusPaymentRequired, map[string]string{"error": ai.QuotaMessage}), nil
	case err != nil:
		log.Printf("chat error: %v", err)
		return respond(http.StatusInternalServerError, map[string]any{
			"error":     "failed to get AI response",
			"sentiment": chat.SentimentNeutral,
			"response":  ai.FallbackResponse,
		}), nil
	default:
		return respond(http.StatusOK, map[string]any{
			"sentiment": reply.Sentiment,
			"response":  reply.Response,
		}), nil
	}
}

func respond(status int, payload any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    corsHeaders,
			Body:       `{"error":"failed to encode response"}`,
		}
	}
	return events.APIGatewayProxyResponse{StatusCode: status, Headers: corsHeaders, Body: string(body)}
}

func init() {
	cfg, err := config.LoadAI()
	if err != nil {
		log.Fatalf("failed to load AI configuration: %v", err)
	}
	timeout = time.Duration(cfg.TimeoutSeconds) * time.Second

	switch cfg.Resolve() {
	case config.ProviderArk:
		gateway, err = ai.NewArkGateway(context.Background(), cfg.Ark)
	case config.ProviderOpenAI:
		gateway, err = ai.NewOpenAIGateway(cfg.OpenAI)
	default:
		err = fmt.Errorf("no AI credentials configured")
	}
	if err != nil {
		log.Printf("warning: gateway unavailable (%v), using the local fallback responder", err)
		gateway = ai.NewLocalGateway(nil)
	}
}

func main() {
	lambda.Start(handler)
}
