// Package application 应用层公共接口
//
// 用例负责划定事务边界、校验输入、记录Span和指标,业务规则由领域服务负责。
package application

import "context"

// TxManager 事务管理器(由persistence/rdb实现)
// fn内的仓储调用从ctx取得同一个事务
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Validator 实体字段校验(由pkg/validator实现)
type Validator interface {
	Struct(s any) error
}

// TracerName 用例Span所属的Tracer
const TracerName = "library/application"
