package cba

import (
	"fmt"
	"time"

	"github.com/haierkeys/fast-note-web/pkg/logger"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Fragment 一个需要替换的子树
type Fragment struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

// Patch is the answer to one event: dirty subtrees, removed ids and notices
// Patch 是一次事件的响应：脏子树、移除的 ID 与提示
type Patch struct {
	Refresh  []Fragment `json:"refresh"`
	Remove   []string   `json:"remove"`
	Messages []Message  `json:"messages"`
	Reload   bool       `json:"reload"`
}

// Metrics 事件分发指标
type Metrics struct {
	events   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the dispatch metrics and registers them on reg when not nil
// NewMetrics 创建分发指标，reg 不为空时注册
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cba_events_total",
			Help: "Component events dispatched, by handler and outcome.",
		}, []string{"handler", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cba_event_duration_seconds",
			Help:    "Time spent in component event handlers.",
			Buckets: prometheus.DefBuckets,
		}, []string{"handler"}),
	}
	if reg != nil {
		reg.MustRegister(m.events, m.duration)
	}
	return m
}

// Dispatcher routes events to handlers and builds patches
// Dispatcher 将事件路由到处理器并生成响应补丁
type Dispatcher struct {
	logger  *zap.Logger
	metrics *Metrics
}

// NewDispatcher 创建分发器，metrics 为空时不记录指标
func NewDispatcher(logger *zap.Logger, metrics *Metrics) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{logger: logger, metrics: metrics}
}

// Dispatch applies the submitted input values, invokes the handler bound to the
// event on the target or its nearest ancestor, and returns the resulting patch.
// Dispatch 写入提交的输入值，调用目标或最近祖先上绑定的处理器，并返回补丁。
func (d *Dispatcher) Dispatch(c *Context) (*Patch, error) {
	ev := c.Event
	target, ok := c.Tree.Find(ev.ComponentID)
	if !ok {
		return nil, errors.Wrapf(ErrComponentNotFound, "event %q on %q", ev.Name, ev.ComponentID)
	}

	applyValues(c.Tree, ev.Values)
	if ev.Value == "" && !target.Kind.IsInput() {
		c.Event.Value = target.Value
	}

	name, ok := target.Binding(ev.Name)
	if !ok {
		return nil, errors.Wrapf(ErrHandlerNotFound, "no binding for %q on %q", ev.Name, ev.ComponentID)
	}
	fn, owner, err := c.Tree.Resolve(target.ID(), name)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	err = d.invoke(c, fn)
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	if d.metrics != nil {
		d.metrics.events.WithLabelValues(name, outcome).Inc()
		d.metrics.duration.WithLabelValues(name).Observe(elapsed.Seconds())
	}
	d.logger.Debug("cba event",
		zap.String(logger.FieldComponentID, ev.ComponentID),
		zap.String(logger.FieldEvent, ev.Name),
		zap.String(logger.FieldHandler, name),
		zap.String("owner", owner),
		zap.Duration("duration", elapsed),
		zap.Error(err),
	)
	if err != nil {
		c.Tree.ResetDirty()
		return nil, err
	}
	return BuildPatch(c)
}

func (d *Dispatcher) invoke(c *Context, fn HandlerFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("cba handler panic", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("cba: handler panic: %v", r)
		}
	}()
	return fn(c)
}

// BuildPatch renders the dirty subtrees of the tree and clears the dirty set
// BuildPatch 渲染脏子树并清空脏标记
func BuildPatch(c *Context) (*Patch, error) {
	p := &Patch{
		Refresh:  []Fragment{},
		Remove:   c.Tree.Removed(),
		Messages: c.Messages(),
		Reload:   c.reload,
	}
	if p.Remove == nil {
		p.Remove = []string{}
	}
	if p.Messages == nil {
		p.Messages = []Message{}
	}
	for _, id := range c.Tree.Dirty() {
		html, err := c.Tree.Render(id)
		if err != nil {
			return nil, err
		}
		p.Refresh = append(p.Refresh, Fragment{ID: id, HTML: string(html)})
	}
	c.Tree.ResetDirty()
	return p, nil
}

func applyValues(t *Tree, values map[string][]string) {
	for id, vs := range values {
		n, ok := t.Find(id)
		if !ok || !n.Kind.IsInput() {
			continue
		}
		if n.Kind == KindSelect && n.Multiple {
			n.Values = append([]string(nil), vs...)
			continue
		}
		if len(vs) > 0 {
			n.Value = vs[0]
		} else {
			n.Value = ""
		}
	}
}
