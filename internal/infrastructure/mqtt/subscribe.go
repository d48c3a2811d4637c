package mqtt

import (
	"context"
	"fmt"
)

// Subscribe registers handler for a topic filter such as "smarthome/commands/+".
// The filter is remembered and re-subscribed by handleConnect after the
// broker connection drops.
func (c *Client) Subscribe(ctx context.Context, filter string, qos byte, handler MessageHandler) error {
	if err := checkTopic(filter, qos); err != nil {
		return err
	}
	if handler == nil {
		return fmt.Errorf("%w: nil handler for %s", ErrSubscribeFailed, filter)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.subMu.Lock()
	c.subscriptions[filter] = subscription{topic: filter, qos: qos, handler: handler}
	c.subMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, tokenTimeout)
	defer cancel()
	token := c.client.Subscribe(filter, qos, c.wrapHandler(handler))
	select {
	case <-token.Done():
	case <-ctx.Done():
		c.forget(filter)
		return fmt.Errorf("%w: %s: %w", ErrSubscribeFailed, filter, ctx.Err())
	}
	if err := token.Error(); err != nil {
		c.forget(filter)
		return fmt.Errorf("%w: %s: %w", ErrSubscribeFailed, filter, err)
	}

	c.logger.Info("listening for device state", "filter", filter, "qos", qos)
	return nil
}

// checkTopic validates the arguments shared by Publish and Subscribe.
func checkTopic(topic string, qos byte) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	return nil
}

func (c *Client) forget(filter string) {
	c.subMu.Lock()
	delete(c.subscriptions, filter)
	c.subMu.Unlock()
}
