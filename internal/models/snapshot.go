package models

// Element 页面元素快照
type Element struct {
	Text string // 去除首尾空白的可见文本
	HTML string // 元素自身的outerHTML
}

// PageSnapshot 渲染后页面的元素快照
// 指针为nil表示页面中不存在该元素
type PageSnapshot struct {
	URL string

	Status      *Element // #dtld 状态元素
	Definition  *Element // 释义段落
	Table       *Element // #tb 祖先表 / 候选表
	Descendants *Element // #or 后代列表(可选)
	Graph       *Element // iframe #pi 内的 #graph0
}
