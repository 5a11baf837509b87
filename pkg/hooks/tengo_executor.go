package hooks

import (
	"fmt"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
)

// TengoExecutor runs hook scripts written in Tengo.
type TengoExecutor struct {
	scripts map[HookType]string
	mutex   sync.RWMutex
}

var _ HookManager = (*TengoExecutor)(nil)

// NewTengoExecutor creates a new Tengo script executor.
func NewTengoExecutor() *TengoExecutor {
	return &TengoExecutor{
		scripts: make(map[HookType]string),
	}
}

// Execute runs the script registered for the hook type with the given context.
func (e *TengoExecutor) Execute(hookType HookType, ctx HookContext) error {
	e.mutex.RLock()
	script, exists := e.scripts[hookType]
	e.mutex.RUnlock()
	if !exists {
		return nil
	}

	instance := tengo.NewScript([]byte(script))
	modules := stdlib.GetModuleMap("fmt", "os", "times")
	// Tengo's stdlib registers its string module as "text"; expose it under
	// the name "strings" that hook scripts import.
	modules.AddBuiltinModule("strings", stdlib.BuiltinModules["text"])
	instance.SetImports(modules)

	if err := instance.Add("currentVersion", ctx.CurrentVersion); err != nil {
		return errors.NewUpgradeError(errors.KindHook, err, "failed to add currentVersion to script")
	}
	if err := instance.Add("targetVersion", ctx.TargetVersion); err != nil {
		return errors.NewUpgradeError(errors.KindHook, err, "failed to add targetVersion to script")
	}
	if err := instance.Add("installDir", ctx.InstallDir); err != nil {
		return errors.NewUpgradeError(errors.KindHook, err, "failed to add installDir to script")
	}
	if err := instance.Add("packageDir", ctx.PackageDir); err != nil {
		return errors.NewUpgradeError(errors.KindHook, err, "failed to add packageDir to script")
	}
	for k, v := range ctx.Vars {
		if err := instance.Add(k, v); err != nil {
			return errors.NewUpgradeErrorf(errors.KindHook, err, "failed to add variable %q to script", k)
		}
	}

	compiled, err := instance.Run()
	if err != nil {
		return errors.NewUpgradeErrorf(errors.KindHook,
			fmt.Errorf("%w: %w", ErrHookExecution, err), "%s hook failed", hookType)
	}

	// A script signals failure by assigning a non-empty err variable.
	if errVar := compiled.Get("err"); errVar != nil {
		switch v := errVar.Value().(type) {
		case error:
			return errors.NewUpgradeErrorf(errors.KindHook,
				fmt.Errorf("%w: %w", ErrHookScript, v), "%s hook reported an error", hookType)
		case string:
			if v != "" {
				return errors.NewUpgradeErrorf(errors.KindHook,
					fmt.Errorf("%w: %s", ErrHookScript, v), "%s hook reported an error", hookType)
			}
		}
	}

	return nil
}

// AddHook registers or replaces the script carried by hook.
func (e *TengoExecutor) AddHook(hook Hook) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.scripts[hook.Type] = hook.Content
	return nil
}

// RemoveHook drops the script for the specified hook type.
func (e *TengoExecutor) RemoveHook(hookType HookType) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	delete(e.scripts, hookType)
	return nil
}

// HasHook checks if a script is registered for the specified hook type.
func (e *TengoExecutor) HasHook(hookType HookType) bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	_, exists := e.scripts[hookType]
	return exists
}
