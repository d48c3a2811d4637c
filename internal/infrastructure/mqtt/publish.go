package mqtt

import (
	"context"
	"fmt"
)

// maxPayloadSize caps published messages at 128KB, the AWS IoT Core limit.
const maxPayloadSize = 128 << 10

// Publish sends payload to topic. Commands are never retained.
//
// At QoS 0 the token completes as soon as the packet is written, so the call
// reports only local or connection failures; there is no delivery confirmation.
func (c *Client) Publish(ctx context.Context, topic string, payload []byte, qos byte) error {
	if err := checkTopic(topic, qos); err != nil {
		return err
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, tokenTimeout)
	defer cancel()
	token := c.client.Publish(topic, qos, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrPublishFailed, ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}
