package domain

import "errors"

// Классификация отказов провайдеров. Все четыре обрабатываются одинаково:
// гасятся на границе попытки и списываются из бюджета ретраев адаптера.
var (
	// ErrProviderUnavailable провайдер не сконфигурирован (нет ключа или id).
	ErrProviderUnavailable = errors.New("провайдер недоступен: нет конфигурации")
	// ErrProviderTransport сетевая ошибка, таймаут или не-2xx ответ.
	ErrProviderTransport = errors.New("транспортная ошибка провайдера")
	// ErrProviderData некорректный или неполный ответ провайдера.
	ErrProviderData = errors.New("некорректные данные провайдера")
	// ErrPoolEmpty в локальном или загруженном пуле нет изображений.
	ErrPoolEmpty = errors.New("пул изображений пуст")
)

// ErrAssetNotFound возвращается при удалении несуществующего изображения.
var ErrAssetNotFound = errors.New("изображение не найдено")
