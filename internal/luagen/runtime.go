package luagen

// Prelude is the runtime support every generated program assumes: class and
// enum scaffolding, the 0-based array wrapper, bit operations, and the
// helpers the operator lowering emits. It is plain Lua 5.1 with LuaJIT's bit
// library.
const Prelude = `-- runtime support for generated code
local bit = rawget(_G, "bit") or require("bit")

_hx_bit = {
  band = bit.band,
  bor = bit.bor,
  bxor = bit.bxor,
  bnot = bit.bnot,
  shl = bit.lshift,
  shr = bit.arshift,
  ushr = bit.rshift,
}

_hx_undefined = setmetatable({}, {__tostring = function() return "undefined" end})
_hx_break = setmetatable({}, {__tostring = function() return "break" end})
_hx_cont = setmetatable({}, {__tostring = function() return "continue" end})

function _hx_class(path, super)
  local cls = {__name__ = path, __super__ = super}
  cls.prototype = setmetatable({}, super and {__index = super.prototype} or nil)
  cls.prototype._hx_class = cls
  return cls
end

function _hx_new(cls)
  return function(...)
    local self = setmetatable({}, {__index = cls.prototype})
    cls.super(self, ...)
    return self
  end
end

function _hx_enum(path, ctors)
  return {__ename__ = path, __constructs__ = ctors}
end

function _hx_bind(o, fn)
  if fn == nil then return nil end
  return function(...)
    return fn(o, ...)
  end
end

function _hx_tab_array(tab, length)
  tab.length = length
  return tab
end

function _hx_tab_obj(tab)
  return tab
end

function _hx_str(v)
  if v == nil then
    return "null"
  end
  return tostring(v)
end

function _hx_mod(a, b)
  local r = math.fmod(a, b)
  return r
end

function _hx_hash(s)
  local h = 0
  for i = 1, #s do
    h = _hx_bit.band(h * 223 + string.byte(s, i), 0x3FFFFFFF)
  end
  return h
end

function _hx_instance_of(v, cls)
  if cls == "String" then
    return type(v) == "string"
  elseif cls == "Bool" then
    return type(v) == "boolean"
  elseif cls == "Int" then
    return type(v) == "number" and math.floor(v) == v
  elseif cls == "Float" then
    return type(v) == "number"
  elseif cls == "Array" then
    return type(v) == "table" and v.length ~= nil
  elseif cls == "Dynamic" then
    return true
  end
  if type(v) ~= "table" then
    return false
  end
  if v._hx_enum ~= nil then
    return v._hx_enum == cls
  end
  local c = v._hx_class
  while c ~= nil do
    if c == cls then
      return true
    end
    c = c.__super__
  end
  return false
end
`
