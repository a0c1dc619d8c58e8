// Lambda entrypoint: the chi router is served through the API Gateway V2
// proxy adapter. The container is built once per cold start.
package main

import (
	"context"
	"log"

	"studytrack-backend/internal/app"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
)

var chiLambda *chiadapter.ChiLambdaV2

func init() {
	container, err := app.NewContainer(context.Background())
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}
	chiLambda = chiadapter.NewV2(container.Router)
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return chiLambda.ProxyWithContextV2(ctx, req)
}

func main() {
	lambda.Start(handler)
}
