package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"atelier-billing/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

type AgentService interface {
	InterpretPaymentNote(ctx context.Context, note string, scheduleContext string) (*core.PaymentCommand, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// InterpretPaymentNote turns a free-text payment note into a structured
// PaymentCommand against the given schedule. The result is a proposal —
// recording it still goes through the validated payment path after the
// user confirms.
func (a *Agent) InterpretPaymentNote(ctx context.Context, note string, scheduleContext string) (*core.PaymentCommand, error) {
	prompt := fmt.Sprintf(`You are the billing assistant of a made-to-order tailoring atelier.
Your goal is to interpret a payment note written in natural language and map it onto the order's installment schedule.
Rules:
1. Use ONLY installment ids from the schedule below, or an empty string for the next due installment.
2. Never target an installment already marked paid.
3. The amount must be an exact decimal string (e.g. "500.00") and never exceed the targeted installment's amount.
4. Dates are YYYY-MM-DD. When the note gives no date, leave it empty.
5. Method is one of: cash, cheque, transfer, card. Default to cash.
6. Provide a confidence score (0.0-1.0).
7. Explain your reasoning.

Installment schedule:
%s

Payment note: %s`, scheduleContext, note)

	// Dynamically generate the JSON schema from the Go struct
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "payment_command",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A structured installment payment derived from a free-text note"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var cmd core.PaymentCommand
	if err := json.Unmarshal([]byte(content), &cmd); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("payment command validation failed: %w", err)
	}

	return &cmd, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.PaymentCommand
	return reflector.Reflect(v)
}
