package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdaclient "github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// LambdaAPI is the subset of the Lambda client used to invoke deployed handlers
type LambdaAPI interface {
	Invoke(ctx context.Context, params *lambdaclient.InvokeInput, optFns ...func(*lambdaclient.Options)) (*lambdaclient.InvokeOutput, error)
}

// FunctionInvoker invokes deployed Lambda functions synchronously
type FunctionInvoker struct {
	client LambdaAPI
}

// FunctionError is returned when the invoked function itself failed
type FunctionError struct {
	FunctionName string
	Kind         string
	Payload      string
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("function %s failed (%s): %s", e.FunctionName, e.Kind, e.Payload)
}

// NewFunctionInvoker creates a function invoker
func NewFunctionInvoker(client LambdaAPI) *FunctionInvoker {
	return &FunctionInvoker{client: client}
}

// Invoke calls the function with payload marshalled as JSON and returns the
// raw response payload
func (i *FunctionInvoker) Invoke(ctx context.Context, functionName string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	output, err := i.client.Invoke(ctx, &lambdaclient.InvokeInput{
		FunctionName:   aws.String(functionName),
		InvocationType: lambdatypes.InvocationTypeRequestResponse,
		Payload:        payloadBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", functionName, err)
	}

	if output.FunctionError != nil {
		return nil, &FunctionError{
			FunctionName: functionName,
			Kind:         aws.ToString(output.FunctionError),
			Payload:      string(output.Payload),
		}
	}

	return output.Payload, nil
}
