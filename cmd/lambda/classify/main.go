package main

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"image-classify-bot/internal/config"
	pkglambda "image-classify-bot/pkg/lambda"
	"image-classify-bot/pkg/server"
)

var container *server.Container

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	container, err = server.NewContainer(cfg)
	if err != nil {
		panic("Failed to initialize container: " + err.Error())
	}
}

// requestBody returns the raw notification bytes. API Gateway base64-encodes
// bodies matched by a binary media type and flags them with IsBase64Encoded.
func requestBody(event events.APIGatewayProxyRequest) ([]byte, error) {
	if event.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(event.Body)
	}
	return []byte(event.Body), nil
}

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body, err := requestBody(event)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "text/plain"},
			Body:       "Failed to decode request body: " + err.Error(),
		}, nil
	}

	resp := container.Handler.HandleEvent(ctx, &pkglambda.Request{
		Headers: event.Headers,
		Body:    body,
	})

	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    map[string]string{"Content-Type": resp.ContentType},
		Body:       resp.Body,
	}, nil
}

func main() {
	awslambda.Start(handler)
}
