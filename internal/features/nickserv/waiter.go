// Package nickserv — waiter.go будит горутины, ожидающие ответ NickServ.
package nickserv

import "sync"

// Waiters — реестр ожиданий по нику. Верификатор регистрирует канал и
// ждёт на нём; процессор уведомлений дёргает Notify после записи в стор.
// Это замена busy-poll: ожидание просыпается либо по приходу записи,
// либо по дедлайну.
type Waiters struct {
	mu      sync.Mutex
	waiting map[string][]chan struct{}
}

// NewWaiters создаёт пустой реестр.
func NewWaiters() *Waiters {
	return &Waiters{waiting: make(map[string][]chan struct{})}
}

// Register возвращает канал, который получит сигнал при появлении
// записи для ника. Канал буферизован: Notify не блокируется, даже если
// ожидающий ещё не дошёл до select.
func (w *Waiters) Register(nick string) chan struct{} {
	ch := make(chan struct{}, 1)
	w.mu.Lock()
	w.waiting[nick] = append(w.waiting[nick], ch)
	w.mu.Unlock()
	return ch
}

// Unregister убирает канал из реестра (вызывается по defer из ожидания).
func (w *Waiters) Unregister(nick string, ch chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	chans := w.waiting[nick]
	for i, c := range chans {
		if c == ch {
			w.waiting[nick] = append(chans[:i], chans[i+1:]...)
			break
		}
	}
	if len(w.waiting[nick]) == 0 {
		delete(w.waiting, nick)
	}
}

// Notify будит всех, кто ждёт данный ник.
func (w *Waiters) Notify(nick string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, ch := range w.waiting[nick] {
		select {
		case ch <- struct{}{}:
		default:
			// сигнал уже лежит в буфере — достаточно
		}
	}
}
