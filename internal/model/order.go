package model

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Order — принятый заказ (талон) на смену
// ItemIDs содержит ID позиции столько раз, сколько единиц заказано
type Order struct {
	OrderUID    string    `json:"order_uid" validate:"required,uuid4"`
	ShiftID     int64     `json:"shift_id" validate:"required"`
	CustomerID  string    `json:"customer_id" validate:"required"`
	Source      string    `json:"source" validate:"required,oneof=web kitchen"`
	ItemIDs     []int64   `json:"item_ids" validate:"required,gt=0"`
	DateCreated time.Time `json:"date_created" validate:"required"`
}

// SubmitRequest — заявка на оформление заказа от UI или кухонного терминала
type SubmitRequest struct {
	ShiftID    int64   `json:"shift_id" validate:"required"`
	CustomerID string  `json:"customer_id" validate:"required"`
	Source     string  `json:"source" validate:"omitempty,oneof=web kitchen"`
	ItemIDs    []int64 `json:"item_ids" validate:"required,gt=0,dive,required"`
}

// AcceptedEvent публикуется в кафку после сохранения заказа
type AcceptedEvent struct {
	OrderUID    string    `json:"order_uid"`
	ShiftID     int64     `json:"shift_id"`
	CustomerID  string    `json:"customer_id"`
	Source      string    `json:"source"`
	ItemIDs     []int64   `json:"item_ids"`
	DateCreated time.Time `json:"date_created"`
}

const (
	SourceWeb     = "web"
	SourceKitchen = "kitchen"
)

var validate = validator.New()

// Validate проверяет корректность структуры Order на основе тегов validate
func (o *Order) Validate() error {
	return validate.Struct(o)
}

// Validate проверяет заявку до обращения к меню смены
func (r *SubmitRequest) Validate() error {
	return validate.Struct(r)
}

// Event строит событие о принятом заказе
func (o Order) Event() AcceptedEvent {
	return AcceptedEvent{
		OrderUID:    o.OrderUID,
		ShiftID:     o.ShiftID,
		CustomerID:  o.CustomerID,
		Source:      o.Source,
		ItemIDs:     o.ItemIDs,
		DateCreated: o.DateCreated,
	}
}
