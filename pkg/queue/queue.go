package queue

// Queue represents a basic message queue.
type Queue interface {
	// Enqueue adds an item to the end of the queue.
	Enqueue(item interface{}) error
	// Size returns the current size of the queue.
	Size() int
	// ReadAllMessages reads all pending messages in the queue.
	ReadAllMessages() ([]interface{}, error)
	// ClearQueue clears all messages from the queue.
	ClearQueue() error
}
