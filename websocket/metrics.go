// Package websocket - websocket/metrics.go
// file: websocket/metrics.go

package websocket

import (
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"

	"go-class-pulse/logger"
)

// Namespace for all ClassPulse metrics
var metricsNamespace = "ClassPulse"

// metricsEnabled gates CloudWatch publishing; off unless explicitly enabled.
var metricsEnabled = os.Getenv("ENABLE_CLOUDWATCH") == "true"

// Reuse a single CloudWatch client for all metrics calls
var cwClient *cloudwatch.CloudWatch

func init() {
	if metricsEnabled {
		cwClient = cloudwatch.New(session.Must(session.NewSession()))
	}
}

// PublishStudentConnections pushes the current WebSocket connection count
func PublishStudentConnections(count int) {
	putMetric("StudentConnections", float64(count), "Count")
}

// PublishAnswerLatency pushes the time from question start to an accepted answer (in ms)
func PublishAnswerLatency(latencyMs float64) {
	putMetric("AnswerLatencyMs", latencyMs, "Milliseconds")
}

// PublishBroadcastBacklog pushes a gauge for broadcast queue depth
func PublishBroadcastBacklog(depth int) {
	putMetric("BroadcastQueueDepth", float64(depth), "Count")
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func putMetric(metricName string, value float64, unit string) {
	if !metricsEnabled || cwClient == nil {
		return
	}
	_, err := cwClient.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(metricsNamespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: []*cloudwatch.Dimension{
					{
						Name:  aws.String("Application"),
						Value: aws.String("class-pulse"),
					},
				},
				Timestamp: aws.Time(time.Now()),
				Value:     aws.Float64(value),
				Unit:      aws.String(unit),
			},
		},
	})

	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
	}
}
