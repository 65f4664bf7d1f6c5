package round

// Event 回合产生的副作用事件，供音效等外部协作者订阅
type Event int

const (
	// EventPick 拾起物品（从抛接中或从邮包中）
	EventPick Event = iota
	// EventMiss 按下时没有碰到任何可拾取的东西
	EventMiss
	// EventJuggle 物品被重新抛回空中
	EventJuggle
	// EventThrow 物品被扔向邮箱
	EventThrow
	// EventDeliver 成功投递
	EventDeliver
	// EventExplosion 失去一条命
	EventExplosion
	// EventLose 生命耗尽
	EventLose
	// EventTimeUp 倒计时结束（仍有剩余生命）
	EventTimeUp
	// EventRoundOver 结束倒计时走完，结果可用
	EventRoundOver
)

var eventNames = map[Event]string{
	EventPick:      "pick",
	EventMiss:      "miss",
	EventJuggle:    "juggle",
	EventThrow:     "throw",
	EventDeliver:   "deliver",
	EventExplosion: "explosion",
	EventLose:      "lose",
	EventTimeUp:    "time_up",
	EventRoundOver: "round_over",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return "unknown"
}

// Listener 接收回合事件
// 若同时实现 io.Closer，Session.Close 时会调用其 Close 释放资源
type Listener interface {
	OnEvent(ev Event)
}

// ListenerFunc 函数适配器
type ListenerFunc func(ev Event)

// OnEvent 实现 Listener
func (f ListenerFunc) OnEvent(ev Event) {
	f(ev)
}
