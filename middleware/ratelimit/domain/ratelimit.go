package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import (
	"context"
	"time"
)

type Key string

// Limites da janela deslizante, avaliados por chave (identidade).
const (
	PerMinuteLimit = 100
	PerHourLimit   = 1000

	MinuteWindow = 1 * time.Minute
	HourWindow   = 1 * time.Hour
)

// Code identifica qual janela estourou (e vai no corpo do 429).
type Code string

const (
	CodeMinute Code = "RATE_LIMIT_EXCEEDED"
	CodeHour   Code = "RATE_LIMIT_HOUR_EXCEEDED"
)

// WindowStore mantém, por chave, a sequência ordenada de instantes das
// requisições admitidas dentro da última hora.
//
// Hit calcula as contagens das janelas de minuto e hora (os instantes já
// registrados dentro de cada janela MAIS a tentativa atual) antes de decidir,
// e só registra o instante (recorded=true) quando nenhuma contagem passa do
// limite (comparação estrita: a requisição que faz a contagem chegar exata no
// limite ainda entra). Requisições negadas não entram na sequência. Ao
// registrar, a sequência armazenada é substituída pelo sufixo dentro da
// janela de uma hora mais o instante novo, limitando memória.
//
// Implementações devem ser seguras para uso concorrente: a leitura das
// contagens e o registro condicional acontecem sob a mesma seção crítica.
type WindowStore interface {
	Hit(ctx context.Context, key Key, now time.Time, perMinute, perHour int) (minute, hour int, recorded bool, err error)
}

type Decision struct {
	Allowed bool
	// Code identifica a janela estourada quando bloquear.
	Code Code
	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}
