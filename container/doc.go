// Package container 提供标识符驱动的依赖注入容器家族
//
// 容器家族分为四层，逐层叠加能力：
//
//   - PrimitiveContainer：标识符 → Provider 的运行时注册表，
//     支持 transient / singleton 两种作用域
//   - ChildContainer：分层容器，本地未命中时回退父容器，
//     本地绑定遮蔽父级同名绑定，且永不修改父容器
//   - PreProcessContainer：带依赖预解析的容器，Provider 运行前
//     按声明顺序解析依赖（支持可选依赖）
//   - BasicContainer / BasicChildContainer：在 PreProcess 之上
//     叠加插件体系（变体替换、标签选择性应用）
//
// 解析在调用方 goroutine 上同步完成，内部用读写锁保护状态，
// 不做跨 goroutine 调度。容器不做循环依赖检测：Provider 之间
// 互相解析成环会一直递归到栈耗尽，见 Get 的说明。
//
// 典型用法：
//
//	c := container.NewBasic()
//	c.Use(plugins.Config("configs", "app"), plugins.Logger())
//	loader := container.MustGetTyped[*config.Loader](c, plugins.IDConfig)
//
// 测试中用 UseMocks 切换 mock 变体：
//
//	c := container.NewBasic().UseMocks()
//	c.Use(plugins.Database())  // 安装 sqlite 内存库变体
package container
