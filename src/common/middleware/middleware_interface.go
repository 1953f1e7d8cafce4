package middleware

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

type MiddlewareConnection = *amqp.Connection
type MiddlewareChannel = *amqp.Channel
type MessageDelivery = amqp.Delivery
type ConsumeChannel = <-chan MessageDelivery

type MessageMiddlewareError int

const (
	MessageMiddlewareSuccess MessageMiddlewareError = iota
	MessageMiddlewareMessageError
	MessageMiddlewareDisconnectedError
	MessageMiddlewareCloseError
	MessageMiddlewareDeleteError
)

type onMessageCallback func(consumeChannel ConsumeChannel, done chan error)

type MessageMiddleware interface {
	/*
	   Starts listening to the link queue and invokes the onMessageCallback
	   with the delivery channel. Deliveries arrive in publish order, which
	   is what the election protocol relies on for each directed link.
	   If the connection to the middleware is lost, it raises MessageMiddlewareDisconnectedError.
	*/
	StartConsuming(onMessageCallback onMessageCallback) (e MessageMiddlewareError)

	/*
	   If it was consuming from the link queue, it stops listening.
	   If it was not consuming, it has no effect and does not raise any error.
	*/
	StopConsuming() (e MessageMiddlewareError)

	/*
	   Publishes a message to the link queue this middleware was initialized
	   with. If the connection to the middleware is lost, it raises
	   MessageMiddlewareDisconnectedError.
	*/
	Send(message []byte) (e MessageMiddlewareError)

	/*
	   Disconnects from the link queue. If an internal error occurs that
	   cannot be resolved, it raises MessageMiddlewareCloseError.
	*/
	Close() (e MessageMiddlewareError)

	/*
	   Forces the remote deletion of the link queue.
	*/
	Delete() (e MessageMiddlewareError)
}
