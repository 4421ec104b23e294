package interpreter

import "loxwalk/internal/environment"

// Callable is anything that can appear as the callee of a Call expression:
// a user Function, a Class (constructing an Instance), or a NativeFunction.
type Callable interface {
	Call(interp *Interpreter, args []Value) Value
	Arity() int
}

func (f *Function) Arity() int { return len(f.Declaration.Parameters) }

func (f *Function) String() string { return "<fn " + f.Declaration.Name.Lexeme + ">" }

// Call executes the function body in a fresh environment enclosing the
// closure captured at definition time, per spec.md §4.4.
func (f *Function) Call(interp *Interpreter, args []Value) (result Value) {
	callEnv := environment.New(f.Closure)
	for i, param := range f.Declaration.Parameters {
		callEnv.Define(param.Lexeme, args[i])
	}

	defer func() {
		if r := recover(); r != nil {
			ret, ok := r.(returnSignal)
			if !ok {
				panic(r)
			}
			if f.IsInitializer {
				result = mustGet(f.Closure, "this")
				return
			}
			result = ret.value
		}
	}()

	interp.executeBlock(f.Declaration.Body, callEnv)

	if f.IsInitializer {
		return mustGet(f.Closure, "this")
	}
	return nil
}

func mustGet(env *environment.Environment, name string) Value {
	v, _ := env.Get(name)
	return v
}

// bind produces a fresh Function whose closure is a new environment
// enclosing the method's original closure and defining `this`, per
// spec.md §4.4's method-binding rule.
func (f *Function) bind(instance *Instance) *Function {
	env := environment.New(f.Closure)
	env.Define("this", instance)
	return &Function{Declaration: f.Declaration, Closure: env, IsInitializer: f.IsInitializer}
}

func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs an Instance and, if the class declares `init`, binds and
// invokes it before returning the instance, per spec.md §4.4.
func (c *Class) Call(interp *Interpreter, args []Value) Value {
	instance := &Instance{Class: c, Fields: make(map[string]Value)}
	if init := c.FindMethod("init"); init != nil {
		init.bind(instance).Call(interp, args)
	}
	return instance
}

// returnSignal is the non-local control-flow value used to unwind a
// `return` statement up to the call frame that invoked the function body,
// per spec.md §5. It is distinct from a runtime error.
type returnSignal struct {
	value Value
}
