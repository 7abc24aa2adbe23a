// Package crawlers 提供词条页面的获取功能
//
// # 概述
//
// crawlers包负责把一个词条(语言+单词)变成页面元素快照(models.PageSnapshot)。
// 支持动态(go-rod无头浏览器)和静态(Colly)两种获取模式,两者输出同样的快照结构,
// 下游的分类和提取逻辑无需关心页面来源。
//
// # 核心组件
//
// ## DynamicFetcher
//
// 基于go-rod的浏览器获取器。整个运行期间只启动一个浏览器、一个标签页。
// 每个词条依次: 导航 -> 等待加载 -> 固定渲染等待 -> 读取元素。
// 祖先图位于iframe #pi 中,读取前先切换到iframe。
//
//	fetcher, err := NewDynamicFetcher(ctx, config, headers)
//	if err != nil { /* 处理错误 */ }
//	defer fetcher.Close()
//
//	snap, err := fetcher.Fetch(ctx, models.WordQuery{Word: "Kampf", Language: "deu"})
//
// ## StaticFetcher
//
// 基于Colly的静态获取器,不执行JavaScript。请求头声明支持gzip/deflate/br,
// 响应体由decompressResponse解压,非UTF-8页面按声明的字符集转码。iframe文档通过其src单独请求。
// 适用于调试和浏览器不可用的环境。
//
// ## SnapshotFromHTML
//
// 使用htmlquery按XPath从原始HTML中定位元素,定位规则与浏览器获取器一致:
//
//	#dtld                       状态元素 (Page Not Found)
//	/html/body/section/div[1]/p 释义段落
//	#tb                         祖先表 / 同形词候选表
//	#or                         后代列表
//	iframe#pi > #graph0         祖先图
//
// ## WordQueue
//
// 先进先出的词条队列,处理过程中可以继续追加。去重开启时,曾入队的词条不会再次入队。
//
// ## ResourceMonitor
//
// 长时间运行浏览器时定期采样系统可用内存(gopsutil),低于阈值时记录告警。
//
// # 并发安全
//
// 获取器按串行使用设计,同一时刻只处理一个词条。WordQueue的方法是并发安全的。
package crawlers
