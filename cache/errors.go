package cache

import (
	"net/http"

	"github.com/KOMKZ/go-yogan-container/errcode"
)

// ModuleCode 缓存模块码
const ModuleCode = 70

var (
	// ErrCacheMiss 缓存未命中
	ErrCacheMiss = errcode.Register(errcode.New(
		ModuleCode, 1, "cache", "error.cache.miss", "缓存未命中"))

	// ErrStoreNotFound 存储后端未注册
	ErrStoreNotFound = errcode.Register(errcode.New(
		ModuleCode, 2, "cache", "error.cache.store_not_found", "存储后端未注册",
		http.StatusInternalServerError))

	// ErrLoaderNotFound 加载器未注册
	ErrLoaderNotFound = errcode.Register(errcode.New(
		ModuleCode, 3, "cache", "error.cache.loader_not_found", "缓存加载器未注册",
		http.StatusInternalServerError))

	// ErrCacheableNotFound 缓存项未配置
	ErrCacheableNotFound = errcode.Register(errcode.New(
		ModuleCode, 4, "cache", "error.cache.cacheable_not_found", "缓存项未配置",
		http.StatusInternalServerError))

	// ErrStoreGet 后端读取失败
	ErrStoreGet = errcode.Register(errcode.New(
		ModuleCode, 5, "cache", "error.cache.store_get", "存储读取失败",
		http.StatusInternalServerError))

	// ErrStoreSet 后端写入失败
	ErrStoreSet = errcode.Register(errcode.New(
		ModuleCode, 6, "cache", "error.cache.store_set", "存储写入失败",
		http.StatusInternalServerError))

	// ErrStoreDelete 后端删除失败
	ErrStoreDelete = errcode.Register(errcode.New(
		ModuleCode, 7, "cache", "error.cache.store_delete", "存储删除失败",
		http.StatusInternalServerError))
)
