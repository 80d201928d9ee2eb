package models

// Position 是节点在画布上的坐标。
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FlowNodeData 是集合节点携带的展示数据。
type FlowNodeData struct {
	Label       string           `json:"label"`
	Fields      map[string]Field `json:"fields"`
	RecordCount int64            `json:"recordCount"`
}

// FlowNode 是图中的一个集合节点。
type FlowNode struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Position Position     `json:"position"`
	Data     FlowNodeData `json:"data"`
}

// FlowEdgeData 是关系边携带的展示数据。
type FlowEdgeData struct {
	SourceField string     `json:"sourceField"`
	TargetField string     `json:"targetField"`
	Confidence  Confidence `json:"confidence"`
}

// FlowEdge 是图中的一条关系边。
type FlowEdge struct {
	ID           string       `json:"id"`
	Source       string       `json:"source"`
	Target       string       `json:"target"`
	SourceHandle string       `json:"sourceHandle"`
	TargetHandle string       `json:"targetHandle"`
	Type         string       `json:"type"`
	Data         FlowEdgeData `json:"data"`
}

// FlowData 是布局完成后的节点和边。
type FlowData struct {
	Nodes []FlowNode `json:"nodes"`
	Edges []FlowEdge `json:"edges"`
}

// Diagram 是一次完整分析的结果：schema、关系以及布局。
type Diagram struct {
	DatabaseName  string         `json:"databaseName"`
	Collections   []Collection   `json:"collections"`
	Relationships []Relationship `json:"relationships"`
	Nodes         []FlowNode     `json:"nodes"`
	Edges         []FlowEdge     `json:"edges"`
}
