package alertsmanager

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/schrodinger-box/boxd/internal/core/ports"
)

const (
	serviceName = "boxd"

	maxRetries = 5
	baseDelay  = 100 * time.Millisecond
)

var severities = map[ports.Topic]string{
	ports.BridgeDeliveryFailed: "critical",
	ports.BridgeDeliveryStale:  "warning",
	ports.CompensationFailed:   "critical",
}

type Alert struct {
	Labels      map[string]string `json:"labels"`
	Annotations map[string]string `json:"annotations"`
	StartsAt    time.Time         `json:"startsAt"`
}

type service struct {
	baseUrl    string
	chainId    uint16
	httpClient *http.Client
}

// NewService returns an Alertmanager client posting to the given api url
// (eg. http://alertmanager:9093/api/v2/alerts).
func NewService(alertManagerURL string, chainId uint16) ports.Alerts {
	return &service{
		baseUrl: alertManagerURL,
		chainId: chainId,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *service) Publish(ctx context.Context, topic ports.Topic, message any) error {
	severity, ok := severities[topic]
	if !ok {
		severity = "info"
	}
	labels := map[string]string{
		"alertname": string(topic),
		"service":   serviceName,
		"severity":  severity,
		"chain_id":  fmt.Sprintf("%d", s.chainId),
	}

	desc := ""
	annotations := map[string]string{}
	switch topic {
	case ports.BridgeDeliveryFailed, ports.BridgeDeliveryStale:
		m, ok := message.(ports.BridgeDeliveryAlert)
		if !ok {
			return fmt.Errorf("invalid message type: %T", message)
		}
		if topic == ports.BridgeDeliveryFailed {
			annotations["firing_title"] = "❌ Bridge Delivery Failed"
		} else {
			annotations["firing_title"] = "⏳ Bridge Delivery Stale"
		}
		desc = formatBridgeDeliveryAlert(m)
		labels["message_id"] = m.MessageId
		labels["box_id"] = m.BoxId
		labels["destination_chain_id"] = fmt.Sprintf("%d", m.DestinationChainId)
	case ports.CompensationFailed:
		m, ok := message.(ports.CompensationAlert)
		if !ok {
			return fmt.Errorf("invalid message type: %T", message)
		}
		annotations["firing_title"] = "🚨 Compensation Failed"
		desc = formatCompensationAlert(m)
		labels["box_id"] = m.BoxId
		labels["action"] = m.Action
	default:
		annotations["firing_title"] = fmt.Sprintf("🔔 %s", topic)
		desc = formatGenericAlert(map[string]any{"event": message})
	}

	annotations["description"] = desc
	alert := Alert{
		Labels:      labels,
		Annotations: annotations,
		StartsAt:    time.Now(),
	}

	if err := s.sendAlert(ctx, alert); err != nil {
		return fmt.Errorf("failed to send alert to AlertManager: %w", err)
	}

	return nil
}

func (s *service) sendAlert(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal([]Alert{alert})
	if err != nil {
		return fmt.Errorf("failed to marshal alerts: %w", err)
	}

	var lastErr error
	for attempt := range maxRetries {
		if attempt > 0 {
			// 100ms, 200ms, 400ms, 800ms
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", s.baseUrl, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		_ = resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		// Client errors are not going to get better.
		if resp.StatusCode < 500 {
			return fmt.Errorf("alertmanager replied with status %d", resp.StatusCode)
		}
		lastErr = fmt.Errorf("alertmanager replied with status %d", resp.StatusCode)
	}

	return fmt.Errorf("failed to send alert after %d attempts: %w", maxRetries, lastErr)
}

func formatBridgeDeliveryAlert(data ports.BridgeDeliveryAlert) string {
	lines := make([]string, 0)
	lines = append(lines, fmt.Sprintf("*Message:* `%s`", data.MessageId))
	lines = append(lines, fmt.Sprintf("*Box:* `%s`", data.BoxId))
	lines = append(lines, fmt.Sprintf(
		"• Route: %d -> %d", data.SourceChainId, data.DestinationChainId,
	))
	lines = append(lines, fmt.Sprintf("• Recipient: %s", data.Recipient))
	lines = append(lines, fmt.Sprintf("• Fee paid: %d", data.Fee))
	lines = append(lines, fmt.Sprintf("• Status: %s", data.Status))
	lines = append(lines, fmt.Sprintf("• Age: %s", data.Age.Round(time.Second)))
	return strings.Join(lines, "\n")
}

func formatCompensationAlert(data ports.CompensationAlert) string {
	lines := []string{
		fmt.Sprintf("*Box:* `%s`", data.BoxId),
		fmt.Sprintf("• Action: %s", data.Action),
		fmt.Sprintf("• Account: %s", data.Account),
		fmt.Sprintf("• Amount: %d %s", data.Amount, data.Asset),
		fmt.Sprintf("• Error: %s", data.Error),
	}
	return strings.Join(lines, "\n")
}

func formatGenericAlert(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("• %s: %v", key, data[key]))
	}
	return strings.Join(lines, "\n")
}
