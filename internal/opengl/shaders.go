package opengl

// GLSL sources for the forward renderer's passes. Matrices arrive
// transposed (see Shader.SetMatrix4x4), so every product is written M * v
// in reverse row-vector order. Depth is remapped from [0, 1] to GL's
// [-1, 1] as the last vertex-stage step.

const ShadowVS = `#version 410 core
layout(location = 0) in vec3 aPosition;

uniform mat4 world;
uniform mat4 view;
uniform mat4 projection;

out gl_PerVertex { vec4 gl_Position; };

void main() {
    gl_Position = projection * view * world * vec4(aPosition, 1.0);
    gl_Position.z = gl_Position.z * 2.0 - gl_Position.w;
}
`

const LitVS = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aUV;
layout(location = 3) in vec3 aTangent;

uniform mat4 world;
uniform mat4 worldInverseTranspose;
uniform mat4 view;
uniform mat4 projection;
uniform mat4 lightView;
uniform mat4 lightProjection;

out gl_PerVertex { vec4 gl_Position; };
layout(location = 0) out vec3 vWorldPos;
layout(location = 1) out vec3 vNormal;
layout(location = 2) out vec2 vUV;
layout(location = 3) out vec3 vTangent;
layout(location = 4) out vec4 vShadowPos;

void main() {
    vec4 worldPos = world * vec4(aPosition, 1.0);
    vWorldPos  = worldPos.xyz;
    vNormal    = mat3(worldInverseTranspose) * aNormal;
    vTangent   = mat3(world) * aTangent;
    vUV        = aUV;
    vShadowPos = lightProjection * lightView * worldPos;

    gl_Position = projection * view * worldPos;
    gl_Position.z = gl_Position.z * 2.0 - gl_Position.w;
}
`

const LitPS = `#version 410 core
// @sampler basicSampler albedo normalMap
// @sampler shadowSampler shadowMap

layout(location = 0) in vec3 vWorldPos;
layout(location = 1) in vec3 vNormal;
layout(location = 2) in vec2 vUV;
layout(location = 3) in vec3 vTangent;
layout(location = 4) in vec4 vShadowPos;

layout(location = 0) out vec4 fragColor;

struct Light {
    vec3  direction;
    int   lightType;
    vec3  position;
    float range;
    vec3  color;
    float intensity;
};

layout(std140) uniform lights {
    Light lightList[5];
    int   lightCount;
};

uniform vec3 cameraPosition;
uniform vec3 ambientColor;
uniform vec4 colorTint;
uniform float roughness;
uniform vec2 uvScale;
uniform vec2 uvOffset;

uniform sampler2D albedo;
uniform sampler2D normalMap;
uniform sampler2DShadow shadowMap;

const int LIGHT_DIRECTIONAL = 0;
const int LIGHT_POINT = 1;

float shadowFactor() {
    vec3 ndc = vShadowPos.xyz / vShadowPos.w;
    if (ndc.z > 1.0) {
        return 1.0;
    }
    vec2 uv = ndc.xy * 0.5 + 0.5;
    vec2 texel = 1.0 / vec2(textureSize(shadowMap, 0));
    float lit = 0.0;
    for (int x = -1; x <= 1; x++) {
        for (int y = -1; y <= 1; y++) {
            lit += texture(shadowMap, vec3(uv + vec2(x, y) * texel, ndc.z));
        }
    }
    return lit / 9.0;
}

vec3 surfaceNormal(vec2 uv) {
    vec3 n = normalize(vNormal);
    vec3 t = normalize(vTangent - n * dot(vTangent, n));
    vec3 b = cross(t, n);
    vec3 m = texture(normalMap, uv).xyz * 2.0 - 1.0;
    return normalize(mat3(t, b, n) * m);
}

vec3 shade(Light l, vec3 n, vec3 toCamera, vec3 base) {
    vec3 toLight;
    float atten = 1.0;
    if (l.lightType == LIGHT_POINT) {
        vec3 d = l.position - vWorldPos;
        float dist = length(d);
        toLight = d / max(dist, 1e-4);
        float falloff = clamp(1.0 - dist / max(l.range, 1e-4), 0.0, 1.0);
        atten = falloff * falloff;
    } else {
        toLight = normalize(-l.direction);
    }

    float diffuse = max(dot(n, toLight), 0.0);
    float shininess = mix(256.0, 2.0, clamp(roughness, 0.0, 1.0));
    vec3 h = normalize(toLight + toCamera);
    float spec = diffuse > 0.0 ? pow(max(dot(n, h), 0.0), shininess) * (1.0 - roughness) : 0.0;

    return (base * diffuse + vec3(spec)) * l.color * l.intensity * atten;
}

void main() {
    vec2 uv = vUV * uvScale + uvOffset;
    vec4 base = texture(albedo, uv) * colorTint;
    vec3 n = surfaceNormal(uv);
    vec3 toCamera = normalize(cameraPosition - vWorldPos);

    vec3 color = ambientColor * base.rgb;
    float shadow = shadowFactor();
    for (int i = 0; i < lightCount; i++) {
        vec3 c = shade(lightList[i], n, toCamera, base.rgb);
        // only the first directional light casts the shadow map
        if (i == 0 && lightList[i].lightType == LIGHT_DIRECTIONAL) {
            c *= shadow;
        }
        color += c;
    }
    fragColor = vec4(color, base.a);
}
`

const SkyVS = `#version 410 core
layout(location = 0) in vec3 aPosition;

uniform mat4 view;
uniform mat4 projection;

out gl_PerVertex { vec4 gl_Position; };
layout(location = 0) out vec3 vDirection;

void main() {
    mat4 rotation = view;
    rotation[3] = vec4(0.0, 0.0, 0.0, 1.0);
    vDirection = aPosition;
    // z = w puts the sky on the far plane after the depth remap
    gl_Position = (projection * rotation * vec4(aPosition, 1.0)).xyww;
    gl_Position.z = gl_Position.z * 2.0 - gl_Position.w;
}
`

const SkyPS = `#version 410 core
// @sampler samplerState skybox

layout(location = 0) in vec3 vDirection;
layout(location = 0) out vec4 fragColor;

uniform samplerCube skybox;

void main() {
    fragColor = texture(skybox, vDirection);
}
`
