// Package lambdaproxy serves the fiber app from AWS Lambda / Netlify Functions.
// API Gateway proxy events are converted by aws-lambda-go-api-proxy's fiber adapter.
package lambdaproxy

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	fiberadapter "github.com/awslabs/aws-lambda-go-api-proxy/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// HandlerFunc is the signature accepted by lambda.Start
type HandlerFunc func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Handler returns a lambda handler that runs every event through app.
// prefix (ví dụ "/.netlify/functions") is removed from the request path first.
// Events the adapter cannot convert (bad base64 body, malformed URL) get a 400.
func Handler(app *fiber.App, prefix string, log logrus.FieldLogger) HandlerFunc {
	adapter := fiberadapter.New(app)
	return func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		request.Path = StripPrefix(request.Path, prefix)

		resp, err := adapter.ProxyWithContext(ctx, request)
		if err != nil {
			if log != nil {
				log.WithError(err).WithFields(logrus.Fields{
					"method": request.HTTPMethod,
					"path":   request.Path,
				}).Warn("lambda event rejected")
			}
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusBadRequest,
				Headers:    map[string]string{fiber.HeaderContentType: fiber.MIMEApplicationJSON},
				Body:       `{"error":"invalid request"}`,
			}, nil
		}
		return resp, nil
	}
}

// StripPrefix removes prefix from path and keeps the result rooted at "/"
func StripPrefix(path, prefix string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix != "" && (path == prefix || strings.HasPrefix(path, prefix+"/")) {
		path = strings.TrimPrefix(path, prefix)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
