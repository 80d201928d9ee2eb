// Package layout 为集合关系图计算节点坐标：有连接的节点按分层方式从左到右排列，
// 孤立节点以网格形式放在右侧。相同输入总是得到相同输出。
package layout

import (
	"SchemaFlow/backend/go/internal/config"
	"SchemaFlow/backend/go/internal/models"
	"fmt"
	"math"
	"sort"
)

// Options 控制布局的尺寸参数。
type Options struct {
	NodeWidth    float64
	NodeHeight   float64
	LayerSpacing float64 // 相邻两层之间的水平间距
	NodeSpacing  float64 // 同一层内节点的垂直间距
	Padding      float64

	IsolatedOffsetX float64 // 孤立节点网格相对于最右侧节点的偏移
	IsolatedGapX    float64
	IsolatedGapY    float64

	Sweeps int // 重心法交叉消减的轮数
}

// DefaultOptions 返回默认尺寸。
func DefaultOptions() Options {
	return Options{
		NodeWidth:       250,
		NodeHeight:      300,
		LayerSpacing:    180,
		NodeSpacing:     80,
		Padding:         30,
		IsolatedOffsetX: 400,
		IsolatedGapX:    100,
		IsolatedGapY:    200,
		Sweeps:          4,
	}
}

// OptionsFromConfig 把配置文件中的 layout 段转换为 Options。
func OptionsFromConfig(cfg config.LayoutConfig) Options {
	return Options{
		NodeWidth:       cfg.NodeWidth,
		NodeHeight:      cfg.NodeHeight,
		LayerSpacing:    cfg.LayerSpacing,
		NodeSpacing:     cfg.NodeSpacing,
		Padding:         cfg.Padding,
		IsolatedOffsetX: cfg.IsolatedOffsetX,
		IsolatedGapX:    cfg.IsolatedGapX,
		IsolatedGapY:    cfg.IsolatedGapY,
		Sweeps:          cfg.Sweeps,
	}
}

// EdgeID 返回边的唯一标识，包含两端字段名以区分同一对集合之间的多条引用。
func EdgeID(r models.Relationship) string {
	return fmt.Sprintf("%s-%s-%s-%s", r.Source, r.SourceField, r.Target, r.TargetField)
}

// Generate 计算所有节点的位置并构造边。端点不是已知集合的关系会被丢弃。
func Generate(collections []models.Collection, relationships []models.Relationship, opts Options) models.FlowData {
	g := newGraph(collections)

	edges := make([]models.FlowEdge, 0, len(relationships))
	seen := make(map[string]bool)
	for _, r := range relationships {
		s, okS := g.index[r.Source]
		t, okT := g.index[r.Target]
		if !okS || !okT {
			continue
		}
		id := EdgeID(r)
		if seen[id] {
			continue
		}
		seen[id] = true
		edges = append(edges, toFlowEdge(id, r))
		g.connect(s, t)
	}

	positions := make([]models.Position, len(g.names))
	connected, isolated := g.partition()
	layered := g.layer(connected, opts.Sweeps)
	placeLayers(layered, positions, opts)
	placeGrid(isolated, connected, positions, opts)

	nodes := make([]models.FlowNode, 0, len(g.names))
	for i, c := range g.collections {
		nodes = append(nodes, models.FlowNode{
			ID:       c.Name,
			Type:     "collection",
			Position: positions[i],
			Data: models.FlowNodeData{
				Label:       c.Name,
				Fields:      c.Fields,
				RecordCount: c.Count,
			},
		})
	}
	return models.FlowData{Nodes: nodes, Edges: edges}
}

func toFlowEdge(id string, r models.Relationship) models.FlowEdge {
	return models.FlowEdge{
		ID:           id,
		Source:       r.Source,
		Target:       r.Target,
		SourceHandle: fmt.Sprintf("%s-%s-source", r.Source, r.SourceField),
		TargetHandle: fmt.Sprintf("%s-%s-target", r.Target, r.TargetField),
		Type:         "relationship",
		Data: models.FlowEdgeData{
			SourceField: r.SourceField,
			TargetField: r.TargetField,
			Confidence:  r.Confidence,
		},
	}
}

// placeLayers 把每一层放在一列，列在最高的一层上垂直居中。
func placeLayers(layers [][]int, positions []models.Position, opts Options) {
	tallest := 0
	for _, l := range layers {
		if len(l) > tallest {
			tallest = len(l)
		}
	}
	height := func(n int) float64 {
		if n == 0 {
			return 0
		}
		return float64(n)*opts.NodeHeight + float64(n-1)*opts.NodeSpacing
	}

	for li, l := range layers {
		x := opts.Padding + float64(li)*(opts.NodeWidth+opts.LayerSpacing)
		top := opts.Padding + (height(tallest)-height(len(l)))/2
		for i, v := range l {
			positions[v] = models.Position{
				X: x,
				Y: top + float64(i)*(opts.NodeHeight+opts.NodeSpacing),
			}
		}
	}
}

// placeGrid 把孤立节点排成 ceil(sqrt(n)) 列的网格，起点在最右侧节点之后、连通块的顶部。
func placeGrid(isolated, connected []int, positions []models.Position, opts Options) {
	if len(isolated) == 0 {
		return
	}

	maxX, minY := 0.0, opts.Padding
	for i, v := range connected {
		p := positions[v]
		if p.X > maxX {
			maxX = p.X
		}
		if i == 0 || p.Y < minY {
			minY = p.Y
		}
	}
	startX := opts.Padding
	if len(connected) > 0 {
		startX = maxX + opts.IsolatedOffsetX
	}

	columns := int(math.Ceil(math.Sqrt(float64(len(isolated)))))
	for i, v := range isolated {
		positions[v] = models.Position{
			X: startX + float64(i%columns)*(opts.NodeWidth+opts.IsolatedGapX),
			Y: minY + float64(i/columns)*(opts.NodeHeight+opts.IsolatedGapY),
		}
	}
}

// sortByKey 按 key 稳定排序，key 相同时保持原有顺序。
func sortByKey(vs []int, key map[int]float64) {
	sort.SliceStable(vs, func(i, j int) bool {
		return key[vs[i]] < key[vs[j]]
	})
}
