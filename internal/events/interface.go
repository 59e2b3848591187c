package events

type Publisher interface {
	Publish(topic EventType, data any) error
	Decode(data []byte, returnValue any) error
}
