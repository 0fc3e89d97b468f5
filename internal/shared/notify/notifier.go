package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/craftwood/sofa-erp/internal/factory/entity"
)

// StatusChangeEvent 订单状态变更事件
type StatusChangeEvent struct {
	OrderID     string    `json:"order_id"`
	OrderNo     string    `json:"order_no"`
	ProductName string    `json:"product_name"`
	FromStatus  string    `json:"from_status"`
	ToStatus    string    `json:"to_status"`
	Operator    string    `json:"operator"`
	ChangedAt   time.Time `json:"changed_at"`
}

// Notifier 状态变更通知
// 通知是尽力而为的旁路，失败不得影响业务流转
type Notifier interface {
	OrderStatusChanged(ctx context.Context, evt StatusChangeEvent) error
}

// WebhookNotifier 企业IM群机器人Webhook通知
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// OrderStatusChanged 推送文本消息到群机器人
func (n *WebhookNotifier) OrderStatusChanged(ctx context.Context, evt StatusChangeEvent) error {
	label := evt.ToStatus
	if meta, ok := entity.OrderStatusTable[evt.ToStatus]; ok {
		label = meta.Label
	}
	payload := map[string]interface{}{
		"msg_type": "text",
		"content": map[string]string{
			"text": fmt.Sprintf("订单 %s（%s）状态变更：%s", evt.OrderNo, evt.ProductName, label),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化通知消息失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("构造通知请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("发送通知失败: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("通知服务返回异常状态: %d", resp.StatusCode)
	}
	return nil
}

// NopNotifier 未配置Webhook时使用
type NopNotifier struct{}

func (NopNotifier) OrderStatusChanged(ctx context.Context, evt StatusChangeEvent) error {
	return nil
}
