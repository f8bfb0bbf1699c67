package service

import "errors"

var (
	// ErrInvalidRequest — заявка не прошла валидацию полей
	ErrInvalidRequest = errors.New("invalid order request")
	// ErrOrderRejected — заявка нарушает правила заказа для меню смены
	ErrOrderRejected = errors.New("order rejected by ordering rules")
	// ErrInvalidSelection — корзина от клиента уже нарушает правила или устарела
	ErrInvalidSelection = errors.New("selection violates ordering rules")
)
