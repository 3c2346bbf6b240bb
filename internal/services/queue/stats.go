package queue

import "fmt"

// Stats describes the inference queue as seen by the broker.
type Stats struct {
	Name      string `json:"name"`
	Messages  int    `json:"messages"`
	Consumers int    `json:"consumers"`
	Workers   int64  `json:"workers"`
}

func (q *QueueService) GetQueueStats() (*Stats, error) {
	queueInfo, err := q.channel.QueueInspect(q.queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect queue: %w", err)
	}

	return &Stats{
		Name:      queueInfo.Name,
		Messages:  queueInfo.Messages,
		Consumers: queueInfo.Consumers,
		Workers:   q.workers.Load(),
	}, nil
}

// HealthCheck reports whether the broker connection is open and the queue
// can still be inspected.
func (q *QueueService) HealthCheck() string {
	if q.conn == nil || q.conn.IsClosed() {
		return "unhealthy: connection closed"
	}
	if _, err := q.channel.QueueInspect(q.queueName); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}
