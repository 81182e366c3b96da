package main

import "errors"

// Erros de domínio do serviço. Erros de validação são detectados antes de
// qualquer mutação; falhas de armazenamento durante o checkout são envolvidas
// em ErrCheckoutFailed e o carrinho é preservado para retry.
var (
	ErrUnknownProduct   = errors.New("unknown product")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrCheckoutFailed   = errors.New("checkout failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)
