package cache

import (
	"fmt"

	nats "github.com/nats-io/nats.go"

	"github.com/annel0/teletext-world/internal/logging"
)

// invalidateSubject сабжект распределённой инвалидации ключей кеша.
const invalidateSubject = "world.cache.invalidate"

// NatsInvalidator рассылает инвалидации ключей кеша между узлами через
// NATS pub/sub. Узел, удаливший ключ, оповещает остальных; каждый узел
// применяет инвалидацию к своему кешу.
type NatsInvalidator struct {
	nc   *nats.Conn
	sub  *nats.Subscription
	self string // Идентификатор узла для фильтрации собственных сообщений
}

// NewNatsInvalidator подключается к NATS.
func NewNatsInvalidator(url, nodeID string) (*NatsInvalidator, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return &NatsInvalidator{nc: nc, self: nodeID}, nil
}

// Listen подписывается на инвалидации от других узлов.
func (ni *NatsInvalidator) Listen(onInvalidate func(key string)) error {
	sub, err := ni.nc.Subscribe(invalidateSubject, func(msg *nats.Msg) {
		node, key := splitMessage(msg.Data)
		if node == ni.self {
			return // своё же сообщение
		}
		logging.Debug("NatsInvalidator: инвалидация %s от узла %s", key, node)
		onInvalidate(key)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", invalidateSubject, err)
	}
	ni.sub = sub
	return nil
}

// Broadcast оповещает остальные узлы об удалении ключа.
// Ошибки публикации не фатальны: худший случай — устаревший кадр в чужом
// кеше до истечения TTL.
func (ni *NatsInvalidator) Broadcast(key string) {
	payload := append(append([]byte(ni.self), 0), []byte(key)...)
	if err := ni.nc.Publish(invalidateSubject, payload); err != nil {
		logging.Warn("NatsInvalidator: не удалось разослать инвалидацию %s: %v", key, err)
	}
}

// Close отписывается и закрывает соединение.
func (ni *NatsInvalidator) Close() {
	if ni.sub != nil {
		_ = ni.sub.Unsubscribe()
	}
	ni.nc.Close()
}

// splitMessage разбирает сообщение вида node\x00key.
func splitMessage(data []byte) (node, key string) {
	for i, b := range data {
		if b == 0 {
			return string(data[:i]), string(data[i+1:])
		}
	}
	return "", string(data)
}
